package supabase

import (
	"context"

	"github.com/Anshpatel2434/Demaze-task/internal/gateway"
	"github.com/Anshpatel2434/Demaze-task/internal/model"
)

// tokenResponse is the GoTrue password-grant response.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID string `json:"id"`
	} `json:"user"`
}

// authUser is the GoTrue /user response.
type authUser struct {
	ID string `json:"id"`
}

// SignIn exchanges email/password credentials for an access token and
// installs it on the client. The token is returned so callers can
// persist it across sessions.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (string, error) {
	var resp tokenResponse
	err := g.client.Post(ctx, "/auth/v1/token?grant_type=password", nil,
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", &gateway.Error{Op: "sign in", Message: "no access token returned"}
	}

	g.client.SetToken(resp.AccessToken)
	return resp.AccessToken, nil
}

// SignUp registers a new identity. Depending on project settings the
// response may carry a session immediately; when it does, the token is
// installed and returned, otherwise "" is returned and the caller should
// prompt for sign-in after confirmation.
func (g *Gateway) SignUp(ctx context.Context, email, password string) (string, error) {
	var resp tokenResponse
	err := g.client.Post(ctx, "/auth/v1/signup", nil,
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return "", err
	}

	if resp.AccessToken != "" {
		g.client.SetToken(resp.AccessToken)
	}
	return resp.AccessToken, nil
}

// CurrentUserID returns the id of the signed-in user, or "" when no
// token is installed or the session is gone.
func (g *Gateway) CurrentUserID(ctx context.Context) (string, error) {
	if g.client.Token() == "" {
		return "", nil
	}

	var user authUser
	if err := g.client.Get(ctx, "/auth/v1/user", &user); err != nil {
		// An expired token is "signed out", not a hard failure.
		if gateway.IsAuthError(err) {
			return "", nil
		}
		return "", err
	}
	return user.ID, nil
}

// Profile fetches the profile row for a user id, or nil when absent.
func (g *Gateway) Profile(ctx context.Context, userID string) (*model.UserProfile, error) {
	var rows []model.UserProfile
	err := g.client.Get(ctx,
		"/rest/v1/user_profiles?select=*&id=eq."+userID, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	profile := rows[0]
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SignOut revokes the current session and clears the installed token.
func (g *Gateway) SignOut(ctx context.Context) error {
	if g.client.Token() == "" {
		return nil
	}

	err := g.client.Post(ctx, "/auth/v1/logout", nil, nil, nil)
	g.client.SetToken("")
	if err != nil && !gateway.IsAuthError(err) {
		return err
	}
	return nil
}
