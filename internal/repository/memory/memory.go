// Package memory holds in-process implementations of the repositories with
// the same conflict and not-found semantics as the MongoDB ones.
package memory

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/chngmn/Quizly-server/internal/models"
	"github.com/chngmn/Quizly-server/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type DB struct {
	mu       sync.Mutex
	users    map[bson.ObjectID]models.User
	quizzes  map[bson.ObjectID]models.Quiz
	records  map[bson.ObjectID]models.Record
	majors   map[bson.ObjectID]models.Major
	subjects map[bson.ObjectID]models.Subject
}

func NewDB() *DB {
	return &DB{
		users:    map[bson.ObjectID]models.User{},
		quizzes:  map[bson.ObjectID]models.Quiz{},
		records:  map[bson.ObjectID]models.Record{},
		majors:   map[bson.ObjectID]models.Major{},
		subjects: map[bson.ObjectID]models.Subject{},
	}
}

func (db *DB) Users() *UserStore       { return &UserStore{db: db} }
func (db *DB) Quizzes() *QuizStore     { return &QuizStore{db: db} }
func (db *DB) Records() *RecordStore   { return &RecordStore{db: db} }
func (db *DB) Majors() *MajorStore     { return &MajorStore{db: db} }
func (db *DB) Subjects() *SubjectStore { return &SubjectStore{db: db} }

type UserStore struct{ db *DB }

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, u := range s.db.users {
		if (user.Email != "" && u.Email == user.Email) || (user.KakaoID != "" && u.KakaoID == user.KakaoID) {
			return repository.ErrConflict
		}
	}
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.db.users[user.ID] = *user
	return nil
}

func (s *UserStore) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.ID == id }), nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Email != "" && u.Email == email }), nil
}

func (s *UserStore) FindByKakaoID(_ context.Context, kakaoID string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.KakaoID != "" && u.KakaoID == kakaoID }), nil
}

func (s *UserStore) FindByNicknameExcluding(_ context.Context, nickname string, excludeID bson.ObjectID) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Nickname == nickname && u.ID != excludeID }), nil
}

func (s *UserStore) find(match func(models.User) bool) *models.User {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, u := range s.db.users {
		if match(u) {
			found := u
			return &found
		}
	}
	return nil
}

func (s *UserStore) Update(_ context.Context, user *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, u := range s.db.users {
		if id == user.ID {
			continue
		}
		if (user.Email != "" && u.Email == user.Email) || (user.KakaoID != "" && u.KakaoID == user.KakaoID) {
			return repository.ErrConflict
		}
	}
	user.UpdatedAt = time.Now()
	s.db.users[user.ID] = *user
	return nil
}

func (s *UserStore) Delete(_ context.Context, id bson.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	delete(s.db.users, id)
	return nil
}

type QuizStore struct{ db *DB }

func (s *QuizStore) Create(_ context.Context, quiz *models.Quiz) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if quiz.ID.IsZero() {
		quiz.ID = bson.NewObjectID()
	}
	now := time.Now()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now
	s.db.quizzes[quiz.ID] = *quiz
	return nil
}

func (s *QuizStore) FindByID(_ context.Context, id bson.ObjectID) (*models.Quiz, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	q, ok := s.db.quizzes[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (s *QuizStore) FindByIDs(_ context.Context, ids []bson.ObjectID) (map[bson.ObjectID]*models.Quiz, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	found := make(map[bson.ObjectID]*models.Quiz, len(ids))
	for _, id := range ids {
		if q, ok := s.db.quizzes[id]; ok {
			found[id] = &q
		}
	}
	return found, nil
}

func (s *QuizStore) FindDetailByID(_ context.Context, id bson.ObjectID) (*models.QuizDetail, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	q, ok := s.db.quizzes[id]
	if !ok {
		return nil, nil
	}
	detail := s.detail(q)
	return &detail, nil
}

func (s *QuizStore) List(_ context.Context, filter models.QuizFilter) ([]models.QuizDetail, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	matched := []models.Quiz{}
	for _, q := range s.db.quizzes {
		if filter.Major != nil && q.Major != *filter.Major {
			continue
		}
		if filter.Subject != nil && q.Subject != *filter.Subject {
			continue
		}
		if filter.Type != "" && q.Type != filter.Type {
			continue
		}
		if filter.Creator != nil && q.Creator != *filter.Creator {
			continue
		}
		matched = append(matched, q)
	}

	if filter.Limit > 0 {
		rand.Shuffle(len(matched), func(i, j int) { matched[i], matched[j] = matched[j], matched[i] })
		if len(matched) > filter.Limit {
			matched = matched[:filter.Limit]
		}
	} else {
		sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	}

	details := make([]models.QuizDetail, 0, len(matched))
	for _, q := range matched {
		details = append(details, s.detail(q))
	}
	return details, nil
}

func (s *QuizStore) detail(q models.Quiz) models.QuizDetail {
	detail := models.QuizDetail{Quiz: q}
	if u, ok := s.db.users[q.Creator]; ok {
		detail.CreatorInfo = &models.CreatorInfo{ID: u.ID, Nickname: u.Nickname}
	}
	if m, ok := s.db.majors[q.Major]; ok {
		detail.MajorInfo = &m
	}
	if sub, ok := s.db.subjects[q.Subject]; ok {
		detail.SubjectInfo = &sub
	}
	return detail
}

func (s *QuizStore) Update(_ context.Context, quiz *models.Quiz) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.quizzes[quiz.ID]; !ok {
		return repository.ErrNotFound
	}
	quiz.UpdatedAt = time.Now()
	s.db.quizzes[quiz.ID] = *quiz
	return nil
}

func (s *QuizStore) Delete(_ context.Context, id bson.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.quizzes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.db.quizzes, id)
	return nil
}

func (s *QuizStore) CountByMajor(_ context.Context) (map[bson.ObjectID]int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	counts := map[bson.ObjectID]int64{}
	for _, q := range s.db.quizzes {
		counts[q.Major]++
	}
	return counts, nil
}

type RecordStore struct{ db *DB }

func (s *RecordStore) FindByUserQuiz(_ context.Context, userID, quizID bson.ObjectID) (*models.Record, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, r := range s.db.records {
		if r.User == userID && r.Quiz == quizID {
			c := copyRecord(r)
			return &c, nil
		}
	}
	return nil, nil
}

func (s *RecordStore) Insert(_ context.Context, record *models.Record) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, r := range s.db.records {
		if r.User == record.User && r.Quiz == record.Quiz {
			return repository.ErrConflict
		}
	}
	if record.ID.IsZero() {
		record.ID = bson.NewObjectID()
	}
	s.db.records[record.ID] = copyRecord(*record)
	return nil
}

func (s *RecordStore) Replace(_ context.Context, record *models.Record, expected int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	current, ok := s.db.records[record.ID]
	if !ok || current.Version != expected {
		return repository.ErrConflict
	}
	s.db.records[record.ID] = copyRecord(*record)
	return nil
}

func (s *RecordStore) FindByUser(_ context.Context, userID bson.ObjectID) ([]models.Record, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	records := []models.Record{}
	for _, r := range s.db.records {
		if r.User == userID {
			records = append(records, copyRecord(r))
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].UpdatedAt.After(records[j].UpdatedAt) })
	return records, nil
}

func (s *RecordStore) CountByUser(_ context.Context, userID bson.ObjectID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var n int64
	for _, r := range s.db.records {
		if r.User == userID {
			n++
		}
	}
	return n, nil
}

func (s *RecordStore) SetEverWrong(_ context.Context, id bson.ObjectID, value bool) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	r, ok := s.db.records[id]
	if !ok || r.EverWrong != nil {
		return nil
	}
	r.EverWrong = &value
	s.db.records[id] = r
	return nil
}

// Put stores a record as-is, bypassing the version check. Used to seed
// documents in tests.
func (s *RecordStore) Put(record models.Record) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if record.ID.IsZero() {
		record.ID = bson.NewObjectID()
	}
	s.db.records[record.ID] = copyRecord(record)
}

// Get returns the stored record by id.
func (s *RecordStore) Get(id bson.ObjectID) (models.Record, bool) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	r, ok := s.db.records[id]
	return copyRecord(r), ok
}

func copyRecord(r models.Record) models.Record {
	if r.EverWrong != nil {
		v := *r.EverWrong
		r.EverWrong = &v
	}
	if r.WrongQuizzes != nil {
		r.WrongQuizzes = append([]models.WrongQuiz{}, r.WrongQuizzes...)
	}
	return r
}

type MajorStore struct{ db *DB }

func (s *MajorStore) FindAll(_ context.Context) ([]models.Major, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	majors := make([]models.Major, 0, len(s.db.majors))
	for _, m := range s.db.majors {
		majors = append(majors, m)
	}
	sort.Slice(majors, func(i, j int) bool { return majors[i].Name < majors[j].Name })
	return majors, nil
}

func (s *MajorStore) FindByID(_ context.Context, id bson.ObjectID) (*models.Major, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	m, ok := s.db.majors[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *MajorStore) Insert(_ context.Context, major *models.Major) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, m := range s.db.majors {
		if m.Name == major.Name {
			return repository.ErrConflict
		}
	}
	if major.ID.IsZero() {
		major.ID = bson.NewObjectID()
	}
	s.db.majors[major.ID] = *major
	return nil
}

func (s *MajorStore) DeleteAll(_ context.Context) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.majors = map[bson.ObjectID]models.Major{}
	return nil
}

type SubjectStore struct{ db *DB }

func (s *SubjectStore) FindByMajor(_ context.Context, majorID bson.ObjectID) ([]models.Subject, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	subjects := []models.Subject{}
	for _, sub := range s.db.subjects {
		if sub.Major == majorID {
			subjects = append(subjects, sub)
		}
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects, nil
}

func (s *SubjectStore) FindByID(_ context.Context, id bson.ObjectID) (*models.Subject, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	sub, ok := s.db.subjects[id]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (s *SubjectStore) Insert(_ context.Context, subject *models.Subject) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, sub := range s.db.subjects {
		if sub.Name == subject.Name {
			return repository.ErrConflict
		}
	}
	if subject.ID.IsZero() {
		subject.ID = bson.NewObjectID()
	}
	s.db.subjects[subject.ID] = *subject
	return nil
}

func (s *SubjectStore) DeleteAll(_ context.Context) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.subjects = map[bson.ObjectID]models.Subject{}
	return nil
}
