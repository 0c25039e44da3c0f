// Spotify API implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avidcyclist/spotify-isrc-matcher/internal/models"
	"github.com/avidcyclist/spotify-isrc-matcher/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Tokens are treated as expired this long before the provider's
	// stated expiry to avoid mid-request invalidation.
	tokenExpiryMargin = 60 * time.Second

	defaultExpiresIn = 3600
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	Album   SpotifyAlbum    `json:"album"`
}

type trackPage struct {
	Items []SpotifyTrack `json:"items"`
	Total int            `json:"total"`
}

// searchResponse is the envelope returned by the Spotify search endpoint
// for type=track queries.
type searchResponse struct {
	Tracks trackPage `json:"tracks"`
}

// SpotifyService implements [Catalog] for the Spotify Web API using the
// OAuth2 client-credentials grant.
//
// The service owns its token cache: the token is replaced wholesale on
// expiry and is never persisted across runs.
type SpotifyService struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client
	token        *oauth2.Token
	now          func() time.Time

	// Overridable for testing
	tokenURL string
	apiURL   string
}

// NewSpotifyService creates a new Spotify catalog service with the given credentials.
// The timeout bounds every outbound request, token exchanges included.
func NewSpotifyService(credentials map[string]string, timeout time.Duration) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &SpotifyService{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: timeout},
		now:          time.Now,
		tokenURL:     spotifyTokenURL,
		apiURL:       spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate eagerly exchanges credentials for a token so that a dead
// credential pair fails the run before any lookups are attempted.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	_, err := s.getToken(ctx)
	return err
}

// getToken returns the cached access token, performing a
// client-credentials exchange when the cache is empty or expired.
func (s *SpotifyService) getToken(ctx context.Context) (string, error) {
	if s.token != nil && s.now().Before(s.token.Expiry) {
		return s.token.AccessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create token request: %v", shared.ErrAuthFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.clientID, s.clientSecret)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token request failed: %v", shared.ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: token endpoint returned %d: %s", shared.ErrAuthFailed, resp.StatusCode, body)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: failed to decode token response: %v", shared.ErrAuthFailed, err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: token response missing access_token", shared.ErrAuthFailed)
	}

	expiresIn := tr.ExpiresIn
	if expiresIn == 0 {
		expiresIn = defaultExpiresIn
	}

	s.token = &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   tr.TokenType,
		Expiry:      s.now().Add(time.Duration(expiresIn)*time.Second - tokenExpiryMargin),
	}

	return s.token.AccessToken, nil
}

// Lookup resolves an ISRC via the search endpoint, taking the first
// match. All failures are embedded in the returned record.
func (s *SpotifyService) Lookup(ctx context.Context, isrc string) models.TrackMatch {
	token, err := s.getToken(ctx)
	if err != nil {
		return models.Failure(isrc, fmt.Sprintf("Auth Error: %v", err))
	}

	query := url.Values{
		"q":     {"isrc:" + isrc},
		"type":  {"track"},
		"limit": {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return models.Failure(isrc, fmt.Sprintf("API Error: failed to create request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.Failure(isrc, fmt.Sprintf("API Error: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.Failure(isrc, fmt.Sprintf("API Error: search returned status %d", resp.StatusCode))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return models.Failure(isrc, fmt.Sprintf("Data Error: failed to decode search response: %v", err))
	}

	if len(sr.Tracks.Items) == 0 {
		return models.Failure(isrc, "Track not found")
	}

	track := sr.Tracks.Items[0]
	if track.Name == "" {
		return models.Failure(isrc, "Data Error: search result missing track name")
	}

	match := models.TrackMatch{
		ISRC:        isrc,
		ReleaseYear: releaseYear(track.Album.ReleaseDate),
		TrackName:   track.Name,
		AlbumName:   track.Album.Name,
	}
	if len(track.Artists) > 0 {
		match.ArtistName = track.Artists[0].Name
	}

	return match
}

// releaseYear extracts the year from a Spotify release date, which may
// be "YYYY", "YYYY-MM", or "YYYY-MM-DD". No calendar validation.
func releaseYear(releaseDate string) string {
	if len(releaseDate) > 4 {
		return releaseDate[:4]
	}
	return releaseDate
}
