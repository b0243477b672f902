package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/chngmn/Quizly-server/internal/config"
	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
)

type ProviderTokens struct {
	AccessToken  string
	RefreshToken string
}

type ProviderProfile struct {
	ID           string
	Nickname     string
	ProfileImage string
}

// IdentityProvider is the external OAuth login used for social sign-in.
type IdentityProvider interface {
	Exchange(ctx context.Context, code string) (*ProviderTokens, error)
	FetchProfile(ctx context.Context, accessToken string) (*ProviderProfile, error)
	Unlink(ctx context.Context, subjectID string) error
}

type KakaoOAuthService struct {
	oauth2Config *oauth2.Config
	httpClient   *http.Client
	client       *resty.Client
	adminKey     string
}

func NewKakaoOAuthService(cfg *config.KakaoConfig) *KakaoOAuthService {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &KakaoOAuthService{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
		client:     resty.New().SetBaseURL(cfg.APIBaseURL).SetTimeout(cfg.Timeout),
		adminKey:   cfg.AdminKey,
	}
}

func (s *KakaoOAuthService) GetAuthURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

// Exchange trades an authorization code for Kakao tokens.
func (s *KakaoOAuthService) Exchange(ctx context.Context, code string) (*ProviderTokens, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("kakao token exchange failed: %w", err)
	}
	return &ProviderTokens{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}, nil
}

type kakaoUserResponse struct {
	ID         int64 `json:"id"`
	Properties struct {
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	} `json:"properties"`
	KakaoAccount struct {
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

func (s *KakaoOAuthService) FetchProfile(ctx context.Context, accessToken string) (*ProviderProfile, error) {
	var body kakaoUserResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&body).
		Get("/v2/user/me")
	if err != nil {
		return nil, fmt.Errorf("kakao profile request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("kakao profile request failed with status: %d", resp.StatusCode())
	}
	if body.ID == 0 {
		return nil, errors.New("kakao profile response has no id")
	}

	profile := &ProviderProfile{
		ID:           strconv.FormatInt(body.ID, 10),
		Nickname:     body.Properties.Nickname,
		ProfileImage: body.Properties.ProfileImage,
	}
	if profile.Nickname == "" {
		profile.Nickname = body.KakaoAccount.Profile.Nickname
	}
	if profile.ProfileImage == "" {
		profile.ProfileImage = body.KakaoAccount.Profile.ProfileImageURL
	}
	return profile, nil
}

// Unlink disconnects the app from a Kakao account using the admin key.
func (s *KakaoOAuthService) Unlink(ctx context.Context, kakaoID string) error {
	if s.adminKey == "" {
		return errors.New("kakao admin key is not configured")
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "KakaoAK "+s.adminKey).
		SetFormData(map[string]string{
			"target_id_type": "user_id",
			"target_id":      kakaoID,
		}).
		Post("/v1/user/unlink")
	if err != nil {
		return fmt.Errorf("kakao unlink request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("kakao unlink failed with status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
