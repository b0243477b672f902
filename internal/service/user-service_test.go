package service

import (
	"context"
	"errors"
	"testing"

	"github.com/chngmn/Quizly-server/internal/models"
)

func TestSignup(t *testing.T) {
	s, _, _ := newTestUserService(t)
	ctx := context.Background()

	res, err := s.Signup(ctx, SignupInput{
		Email:    "a@example.com",
		Nickname: "alice",
		Password: "secret1",
		Gender:   "여성",
		School:   "연세대학교",
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if res.Token == "" || res.User.Nickname != "alice" || res.User.Email != "a@example.com" {
		t.Errorf("unexpected signup result: %+v", res)
	}

	profile, err := s.GetProfile(ctx, res.User.ID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.Gender != models.GenderFemale || profile.School != models.SchoolYonsei {
		t.Errorf("fields not normalized: %+v", profile)
	}
	if profile.ID != res.User.ID {
		t.Errorf("profile id %q does not match %q", profile.ID, res.User.ID)
	}
}

func TestSignupValidation(t *testing.T) {
	s, _, _ := newTestUserService(t)
	ctx := context.Background()

	if _, err := s.Signup(ctx, SignupInput{Email: "taken@example.com", Nickname: "taken", Password: "secret1"}); err != nil {
		t.Fatalf("seed signup failed: %v", err)
	}

	tests := []struct {
		name string
		in   SignupInput
	}{
		{"missing nickname", SignupInput{Email: "b@example.com", Password: "secret1"}},
		{"malformed email", SignupInput{Email: "not-an-email", Nickname: "bob", Password: "secret1"}},
		{"short password", SignupInput{Email: "b@example.com", Nickname: "bob", Password: "12345"}},
		{"duplicate email", SignupInput{Email: "taken@example.com", Nickname: "bob", Password: "secret1"}},
		{"duplicate nickname", SignupInput{Email: "b@example.com", Nickname: "taken", Password: "secret1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Signup(ctx, tt.in)
			assertKind(t, err, ErrValidation)
		})
	}
}

func TestLogin(t *testing.T) {
	s, _, _ := newTestUserService(t)
	ctx := context.Background()

	if _, err := s.Signup(ctx, SignupInput{Email: "a@example.com", Nickname: "alice", Password: "secret1"}); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	res, err := s.Login(ctx, "a@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.Token == "" {
		t.Errorf("expected a token")
	}

	_, err = s.Login(ctx, "a@example.com", "wrong-password")
	assertKind(t, err, ErrUnauthenticated)

	_, err = s.Login(ctx, "nobody@example.com", "secret1")
	assertKind(t, err, ErrUnauthenticated)

	_, err = s.Login(ctx, "", "")
	assertKind(t, err, ErrValidation)
}

func TestKakaoLoginNewUserNeedsAdditionalInfo(t *testing.T) {
	s, db, _ := newTestUserService(t)
	ctx := context.Background()

	res, err := s.KakaoLogin(ctx, "code")
	if err != nil {
		t.Fatalf("KakaoLogin failed: %v", err)
	}
	if !res.NeedsAdditionalInfo || res.Auth != nil {
		t.Fatalf("new kakao user must not get a session token: %+v", res)
	}
	if res.KakaoID != "777" || res.Nickname != "kakao-nick" || res.RefreshToken != "refresh-1" {
		t.Errorf("unexpected needs-info payload: %+v", res)
	}

	user, _ := db.Users().FindByKakaoID(ctx, "777")
	if user == nil {
		t.Fatalf("kakao user was not created")
	}
	if user.ProfileComplete() {
		t.Errorf("new kakao user must start with an incomplete profile")
	}
}

func TestKakaoLoginReturningUser(t *testing.T) {
	s, db, provider := newTestUserService(t)
	ctx := context.Background()

	if _, err := s.KakaoLogin(ctx, "code"); err != nil {
		t.Fatalf("first login failed: %v", err)
	}

	// still incomplete: provider fields refresh, no token
	provider.tokens = &ProviderTokens{AccessToken: "access", RefreshToken: "refresh-2"}
	provider.profile = &ProviderProfile{ID: "777", Nickname: "renamed", ProfileImage: "http://img/2.png"}
	res, err := s.KakaoLogin(ctx, "code")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if !res.NeedsAdditionalInfo {
		t.Errorf("incomplete profile must still need additional info")
	}
	user, _ := db.Users().FindByKakaoID(ctx, "777")
	if user.Nickname != "renamed" || user.ProfileImage != "http://img/2.png" || user.RefreshToken != "refresh-2" {
		t.Errorf("provider fields not refreshed: %+v", user)
	}

	auth, err := s.CompleteKakaoSignup(ctx, CompleteSignupInput{KakaoID: "777", Nickname: "final", Gender: "남자", School: "KAIST"})
	if err != nil {
		t.Fatalf("CompleteKakaoSignup failed: %v", err)
	}
	if auth.Token == "" || auth.User.Nickname != "final" {
		t.Errorf("unexpected completion result: %+v", auth)
	}

	res, err = s.KakaoLogin(ctx, "code")
	if err != nil {
		t.Fatalf("third login failed: %v", err)
	}
	if res.NeedsAdditionalInfo || res.Auth == nil || res.Auth.Token == "" {
		t.Errorf("complete profile must receive a session token: %+v", res)
	}
}

func TestKakaoLoginProviderFailurePersistsNothing(t *testing.T) {
	s, db, provider := newTestUserService(t)
	ctx := context.Background()

	provider.profileErr = errors.New("kakao down")
	if _, err := s.KakaoLogin(ctx, "code"); err == nil {
		t.Fatalf("expected provider failure to surface")
	}
	if user, _ := db.Users().FindByKakaoID(ctx, "777"); user != nil {
		t.Errorf("no user should be created when the provider fails")
	}

	_, err := s.KakaoLogin(ctx, "")
	assertKind(t, err, ErrValidation)
}

func TestCompleteKakaoSignupErrors(t *testing.T) {
	s, _, _ := newTestUserService(t)
	ctx := context.Background()

	if _, err := s.Signup(ctx, SignupInput{Email: "a@example.com", Nickname: "alice", Password: "secret1"}); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if _, err := s.KakaoLogin(ctx, "code"); err != nil {
		t.Fatalf("KakaoLogin failed: %v", err)
	}

	_, err := s.CompleteKakaoSignup(ctx, CompleteSignupInput{KakaoID: "777", Nickname: "x"})
	assertKind(t, err, ErrValidation)

	_, err = s.CompleteKakaoSignup(ctx, CompleteSignupInput{KakaoID: "999", Nickname: "x", Gender: "m", School: "kaist"})
	assertKind(t, err, ErrNotFound)

	_, err = s.CompleteKakaoSignup(ctx, CompleteSignupInput{KakaoID: "777", Nickname: "alice", Gender: "m", School: "kaist"})
	assertKind(t, err, ErrValidation)

	// keeping the provisional nickname is a self-match
	if _, err := s.CompleteKakaoSignup(ctx, CompleteSignupInput{KakaoID: "777", Nickname: "kakao-nick", Gender: "m", School: "unknown"}); err != nil {
		t.Errorf("self-held nickname must be accepted: %v", err)
	}
}

func TestCompleteKakaoSignupSharedProvisionalNickname(t *testing.T) {
	s, _, provider := newTestUserService(t)
	ctx := context.Background()

	for _, id := range []string{"1", "2"} {
		provider.profile = &ProviderProfile{ID: id, Nickname: "kim"}
		if _, err := s.KakaoLogin(ctx, "code"); err != nil {
			t.Fatalf("KakaoLogin %s failed: %v", id, err)
		}
	}

	// both users hold "kim", so neither may claim it
	for i := 0; i < 20; i++ {
		_, err := s.CompleteKakaoSignup(ctx, CompleteSignupInput{KakaoID: "2", Nickname: "kim", Gender: "m", School: "kaist"})
		assertKind(t, err, ErrValidation)
		_, err = s.CompleteKakaoSignup(ctx, CompleteSignupInput{KakaoID: "1", Nickname: "kim", Gender: "m", School: "kaist"})
		assertKind(t, err, ErrValidation)
	}

	if _, err := s.CompleteKakaoSignup(ctx, CompleteSignupInput{KakaoID: "1", Nickname: "kim-1", Gender: "m", School: "kaist"}); err != nil {
		t.Fatalf("CompleteKakaoSignup failed: %v", err)
	}
	// the other holder is gone, so "kim" is now a self-match
	if _, err := s.CompleteKakaoSignup(ctx, CompleteSignupInput{KakaoID: "2", Nickname: "kim", Gender: "m", School: "kaist"}); err != nil {
		t.Errorf("sole holder must keep the nickname: %v", err)
	}
}

func TestUpdateProfileNicknameUniqueness(t *testing.T) {
	s, _, _ := newTestUserService(t)
	ctx := context.Background()

	alice, _ := s.Signup(ctx, SignupInput{Email: "a@example.com", Nickname: "alice", Password: "secret1"})
	if _, err := s.Signup(ctx, SignupInput{Email: "b@example.com", Nickname: "bob", Password: "secret1"}); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	taken := "bob"
	_, err := s.UpdateProfile(ctx, alice.User.ID, ProfileUpdate{Nickname: &taken})
	assertKind(t, err, ErrValidation)

	same := "alice"
	school := "고려대"
	profile, err := s.UpdateProfile(ctx, alice.User.ID, ProfileUpdate{Nickname: &same, School: &school})
	if err != nil {
		t.Fatalf("self-update rejected: %v", err)
	}
	if profile.School != models.SchoolKorea {
		t.Errorf("school not normalized: %s", profile.School)
	}

	fresh := "alicia"
	profile, err = s.UpdateProfile(ctx, alice.User.ID, ProfileUpdate{Nickname: &fresh})
	if err != nil || profile.Nickname != "alicia" {
		t.Errorf("free nickname rejected: %v %+v", err, profile)
	}
}

func TestChangePassword(t *testing.T) {
	s, _, _ := newTestUserService(t)
	ctx := context.Background()

	res, _ := s.Signup(ctx, SignupInput{Email: "a@example.com", Nickname: "alice", Password: "secret1"})

	assertKind(t, s.ChangePassword(ctx, res.User.ID, "wrong", "newsecret"), ErrValidation)
	assertKind(t, s.ChangePassword(ctx, res.User.ID, "secret1", "123"), ErrValidation)

	if err := s.ChangePassword(ctx, res.User.ID, "secret1", "newsecret"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if _, err := s.Login(ctx, "a@example.com", "newsecret"); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}

	kakao, _, _ := newTestUserService(t)
	kakao.KakaoLogin(ctx, "code")
	auth, _ := kakao.CompleteKakaoSignup(ctx, CompleteSignupInput{KakaoID: "777", Nickname: "k", Gender: "f", School: "sogang"})
	assertKind(t, kakao.ChangePassword(ctx, auth.User.ID, "x", "newsecret"), ErrValidation)
}

func TestDeleteAccountUnlinkIsBestEffort(t *testing.T) {
	s, db, provider := newTestUserService(t)
	ctx := context.Background()

	s.KakaoLogin(ctx, "code")
	auth, err := s.CompleteKakaoSignup(ctx, CompleteSignupInput{KakaoID: "777", Nickname: "k", Gender: "f", School: "sogang"})
	if err != nil {
		t.Fatalf("CompleteKakaoSignup failed: %v", err)
	}

	provider.unlinkErr = errors.New("kakao down")
	if err := s.DeleteAccount(ctx, auth.User.ID); err != nil {
		t.Fatalf("DeleteAccount must succeed when unlink fails: %v", err)
	}
	if len(provider.unlinked) != 1 || provider.unlinked[0] != "777" {
		t.Errorf("expected one unlink call for 777, got %v", provider.unlinked)
	}
	if user, _ := db.Users().FindByKakaoID(ctx, "777"); user != nil {
		t.Errorf("user still present after deletion")
	}

	_, err = s.GetProfile(ctx, auth.User.ID)
	assertKind(t, err, ErrNotFound)
}
