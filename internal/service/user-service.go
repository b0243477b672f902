package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/chngmn/Quizly-server/internal/events"
	"github.com/chngmn/Quizly-server/internal/models"
	"github.com/chngmn/Quizly-server/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultBcryptCost = 12
	minPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type TokenIssuer interface {
	GenerateToken(userID, nickname string) (string, error)
}

type SignupInput struct {
	Email              string
	Nickname           string
	Password           string
	Gender             string
	School             string
	MarketingAgreement bool
}

type CompleteSignupInput struct {
	KakaoID            string
	Nickname           string
	Gender             string
	School             string
	MarketingAgreement *bool
}

type ProfileUpdate struct {
	Nickname           *string
	Gender             *string
	School             *string
	ProfileImage       *string
	MarketingAgreement *bool
}

type AuthResult struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

// KakaoLoginResult is either a session (Auth set) or a request for the
// profile fields Kakao does not provide.
type KakaoLoginResult struct {
	NeedsAdditionalInfo bool
	KakaoID             string
	Nickname            string
	ProfileImage        string
	RefreshToken        string
	Auth                *AuthResult
}

type UserService struct {
	users      UserStore
	tokens     TokenIssuer
	provider   IdentityProvider
	publisher  events.Publisher
	bcryptCost int
}

func NewUserService(users UserStore, tokens TokenIssuer, provider IdentityProvider, publisher events.Publisher) *UserService {
	return &UserService{
		users:      users,
		tokens:     tokens,
		provider:   provider,
		publisher:  publisher,
		bcryptCost: defaultBcryptCost,
	}
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Nickname = strings.TrimSpace(in.Nickname)
	if in.Email == "" || in.Nickname == "" || in.Password == "" {
		return nil, validationError("email, nickname and password are required")
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, validationError("invalid email format")
	}
	if len(in.Password) < minPasswordLength {
		return nil, validationError(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil {
		return nil, validationError("email already in use")
	}
	if err := s.ensureNicknameAvailable(ctx, in.Nickname, nil); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:              in.Email,
		Password:           string(hash),
		Nickname:           in.Nickname,
		MarketingAgreement: in.MarketingAgreement,
	}
	if in.Gender != "" {
		user.Gender = NormalizeGender(in.Gender)
	}
	if in.School != "" {
		user.School = NormalizeSchool(in.School)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, validationError("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publishRegistered(ctx, user, "local")
	return s.issue(user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, validationError("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if user == nil || user.Password == "" {
		return nil, unauthenticated("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, unauthenticated("invalid email or password")
	}

	return s.issue(user)
}

// KakaoLogin exchanges the authorization code and links or refreshes the
// local account. Nothing is persisted if either provider call fails.
func (s *UserService) KakaoLogin(ctx context.Context, code string) (*KakaoLoginResult, error) {
	if strings.TrimSpace(code) == "" {
		return nil, validationError("authorization code is required")
	}

	tokens, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("kakao login: %w", err)
	}
	profile, err := s.provider.FetchProfile(ctx, tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("kakao login: %w", err)
	}

	user, err := s.users.FindByKakaoID(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("find user by kakao id: %w", err)
	}

	if user == nil {
		user = &models.User{
			KakaoID:      profile.ID,
			Nickname:     profile.Nickname,
			ProfileImage: profile.ProfileImage,
			RefreshToken: tokens.RefreshToken,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create kakao user: %w", err)
		}
		s.publishRegistered(ctx, user, "kakao")
		return needsAdditionalInfo(user), nil
	}

	user.Nickname = profile.Nickname
	user.ProfileImage = profile.ProfileImage
	user.RefreshToken = tokens.RefreshToken
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("refresh kakao user: %w", err)
	}

	if !user.ProfileComplete() {
		return needsAdditionalInfo(user), nil
	}

	auth, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	return &KakaoLoginResult{Auth: auth}, nil
}

func needsAdditionalInfo(user *models.User) *KakaoLoginResult {
	return &KakaoLoginResult{
		NeedsAdditionalInfo: true,
		KakaoID:             user.KakaoID,
		Nickname:            user.Nickname,
		ProfileImage:        user.ProfileImage,
		RefreshToken:        user.RefreshToken,
	}
}

// CompleteKakaoSignup fills the profile of a Kakao-linked account and
// issues its first session token.
func (s *UserService) CompleteKakaoSignup(ctx context.Context, in CompleteSignupInput) (*AuthResult, error) {
	in.KakaoID = strings.TrimSpace(in.KakaoID)
	in.Nickname = strings.TrimSpace(in.Nickname)
	if in.KakaoID == "" || in.Nickname == "" || strings.TrimSpace(in.Gender) == "" || strings.TrimSpace(in.School) == "" {
		return nil, validationError("kakaoId, nickname, gender and school are required")
	}

	user, err := s.users.FindByKakaoID(ctx, in.KakaoID)
	if err != nil {
		return nil, fmt.Errorf("find user by kakao id: %w", err)
	}
	if user == nil {
		return nil, notFound("user not found")
	}
	if err := s.ensureNicknameAvailable(ctx, in.Nickname, user); err != nil {
		return nil, err
	}

	user.Nickname = in.Nickname
	user.Gender = NormalizeGender(in.Gender)
	user.School = NormalizeSchool(in.School)
	if in.MarketingAgreement != nil {
		user.MarketingAgreement = *in.MarketingAgreement
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("complete kakao signup: %w", err)
	}

	return s.issue(user)
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfile(user)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.UserProfile, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Nickname != nil {
		nickname := strings.TrimSpace(*in.Nickname)
		if nickname == "" {
			return nil, validationError("nickname cannot be empty")
		}
		if err := s.ensureNicknameAvailable(ctx, nickname, user); err != nil {
			return nil, err
		}
		user.Nickname = nickname
	}
	if in.Gender != nil {
		user.Gender = NormalizeGender(*in.Gender)
	}
	if in.School != nil {
		user.School = NormalizeSchool(*in.School)
	}
	if in.ProfileImage != nil {
		user.ProfileImage = *in.ProfileImage
	}
	if in.MarketingAgreement != nil {
		user.MarketingAgreement = *in.MarketingAgreement
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("user not found")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return toProfile(user)
}

func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if current == "" || next == "" {
		return validationError("current and new password are required")
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Password == "" {
		return validationError("account has no password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return validationError("current password is incorrect")
	}
	if len(next) < minPasswordLength {
		return validationError(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// DeleteAccount removes the user. Unlinking Kakao is best effort; quizzes
// and records are left in place.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	if user.KakaoID != "" {
		if err := s.provider.Unlink(ctx, user.KakaoID); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("failed to unlink kakao account")
		}
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if err := s.publisher.PublishUserDeleted(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to publish user.deleted")
	}
	return nil
}

func (s *UserService) loadUser(ctx context.Context, userID string) (*models.User, error) {
	id, err := callerID(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, notFound("user not found")
	}
	return user, nil
}

// ensureNicknameAvailable rejects a nickname held by anyone other than self.
func (s *UserService) ensureNicknameAvailable(ctx context.Context, nickname string, self *models.User) error {
	var exclude bson.ObjectID
	if self != nil {
		exclude = self.ID
	}
	holder, err := s.users.FindByNicknameExcluding(ctx, nickname, exclude)
	if err != nil {
		return fmt.Errorf("find user by nickname: %w", err)
	}
	if holder != nil {
		return validationError("nickname already in use")
	}
	return nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(user.ID.Hex(), user.Nickname)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token: token,
		User: models.UserSummary{
			ID:       user.ID.Hex(),
			Nickname: user.Nickname,
			Email:    user.Email,
		},
	}, nil
}

func (s *UserService) publishRegistered(ctx context.Context, user *models.User, method string) {
	if err := s.publisher.PublishUserRegistered(ctx, user.ID.Hex(), user.Nickname, method); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID.Hex()).Msg("failed to publish user.registered")
	}
}

var objectIDToHex = copier.Option{
	Converters: []copier.TypeConverter{{
		SrcType: bson.ObjectID{},
		DstType: copier.String,
		Fn: func(src any) (any, error) {
			return src.(bson.ObjectID).Hex(), nil
		},
	}},
}

func toProfile(user *models.User) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := copier.CopyWithOption(&profile, user, objectIDToHex); err != nil {
		return nil, fmt.Errorf("copy profile: %w", err)
	}
	return &profile, nil
}
