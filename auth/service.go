package auth

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/taskcollab/taskcollab/errors"
	"github.com/taskcollab/taskcollab/logger"
	"github.com/taskcollab/taskcollab/mail"
	"github.com/taskcollab/taskcollab/password"
	"github.com/taskcollab/taskcollab/revocation"
	"github.com/taskcollab/taskcollab/store"
	"github.com/taskcollab/taskcollab/token"
)

var tracer = otel.Tracer("taskcollab/auth")

// Links holds the addresses embedded in verification and reset emails.
type Links struct {
	// Domain is the externally visible host:port of this service.
	Domain string
	// VerifyPath is the path of the verification endpoint.
	VerifyPath string
	// ResetURL is the frontend page that collects the new password.
	ResetURL string
}

// Service orchestrates the session and identity flows.
type Service struct {
	users   store.UserRepository
	codec   *token.Codec
	revoked revocation.Store
	hasher  password.Hasher
	mailer  mail.Sender
	links   Links
	log     *logger.Logger
}

// NewService wires the session flows to their collaborators.
func NewService(
	users store.UserRepository,
	codec *token.Codec,
	revoked revocation.Store,
	hasher password.Hasher,
	mailer mail.Sender,
	links Links,
	log *logger.Logger,
) *Service {
	return &Service{
		users:   users,
		codec:   codec,
		revoked: revoked,
		hasher:  hasher,
		mailer:  mailer,
		links:   links,
		log:     log.WithComponent("auth"),
	}
}

// TokenPair is the login result.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Signup registers a new unverified account and emails a verification link.
// A duplicate email fails with already-exists and creates no record.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*store.User, error) {
	ctx, span := tracer.Start(ctx, "Signup")
	defer span.End()

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Validation(err.Error())
	}

	role := store.Role(req.Role)
	if req.Role == "" {
		role = store.RoleUser
	}

	user := &store.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, store.FromDatabase(err, "user")
	}

	s.log.Info("User signed up", map[string]interface{}{
		"uid":  user.UID.String(),
		"role": string(user.Role),
	})

	s.sendVerificationMail(user.Email)
	return user, nil
}

// Verify marks the account named by a verification token as verified.
func (s *Service) Verify(ctx context.Context, tokenString string) error {
	ctx, span := tracer.Start(ctx, "Verify")
	defer span.End()

	claims, err := s.codec.Decode(tokenString)
	if err != nil || claims.Expired(time.Now()) || claims.Purpose != token.PurposeVerify {
		return errors.InvalidToken()
	}

	user, err := s.users.FindByEmail(ctx, claims.User.Email)
	if err != nil {
		return store.FromDatabase(err, "user")
	}
	if user.IsVerified {
		return nil
	}

	if err := s.users.UpdateFields(ctx, user.UID, map[string]interface{}{"is_verified": true}); err != nil {
		return store.FromDatabase(err, "user")
	}

	s.log.Info("User verified", map[string]interface{}{"uid": user.UID.String()})
	return nil
}

// Login checks credentials and issues an access/refresh token pair. The
// failure is uniform for an unknown email and a wrong password.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenPair, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.InvalidCredentials()
	}
	if err := s.hasher.Verify(req.Password, user.PasswordHash); err != nil {
		return nil, errors.InvalidCredentials()
	}

	return s.issuePair(user)
}

// Refresh issues a new access token for the bearer of a valid refresh
// token. The role is re-read from the user record so a role change takes
// effect on the next refresh.
func (s *Service) Refresh(ctx context.Context, claims *token.Claims) (*TokenPair, error) {
	ctx, span := tracer.Start(ctx, "Refresh")
	defer span.End()

	// The middleware already checked expiry; re-check before issuing.
	if claims.Expired(time.Now()) {
		return nil, errors.InvalidToken()
	}

	user, err := s.users.FindByEmail(ctx, claims.User.Email)
	if err != nil {
		return nil, store.FromDatabase(err, "user")
	}

	access, accessClaims, err := s.codec.IssueAccess(token.Subject{
		UID:   user.UID.String(),
		Email: user.Email,
		Role:  string(user.Role),
	})
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("issue access: %w", err))
	}

	return &TokenPair{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresIn:   int64(accessClaims.ExpiresIn(time.Now()).Seconds()),
	}, nil
}

// Logout revokes the access token's jti for the standard TTL window, so the
// entry outlives the token it blocks.
func (s *Service) Logout(ctx context.Context, claims *token.Claims) error {
	ctx, span := tracer.Start(ctx, "Logout")
	defer span.End()

	if err := s.revoked.Revoke(ctx, claims.JTI(), s.codec.AccessTTL()); err != nil {
		return errors.Internal(err)
	}

	s.log.Info("User logged out", map[string]interface{}{"jti": claims.JTI()})
	return nil
}

// RequestPasswordReset emails a reset link. It always succeeds from the
// caller's view; an unknown email is swallowed to prevent enumeration.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	ctx, span := tracer.Start(ctx, "RequestPasswordReset")
	defer span.End()

	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		s.log.Debug("Password reset requested for unknown email")
		return nil
	}

	resetToken, err := s.codec.IssuePurpose(email, token.PurposeReset)
	if err != nil {
		return errors.Internal(fmt.Errorf("issue reset token: %w", err))
	}

	link := fmt.Sprintf("%s/%s", s.links.ResetURL, resetToken)
	body := fmt.Sprintf(`<p>We received a request to reset your password.</p>
<p>Click <a href="%s">here</a> to choose a new one. The link expires soon.</p>
<p>If you did not request this, you can ignore this email.</p>`, link)

	mail.SendAsync(s.mailer, s.log, []string{email}, "Reset your password", body)
	return nil
}

// ConfirmPasswordReset sets a new password named by a reset token.
func (s *Service) ConfirmPasswordReset(ctx context.Context, tokenString, newPassword, confirmPassword string) error {
	ctx, span := tracer.Start(ctx, "ConfirmPasswordReset")
	defer span.End()

	if newPassword != confirmPassword {
		return errors.PasswordMismatch()
	}

	claims, err := s.codec.Decode(tokenString)
	if err != nil || claims.Expired(time.Now()) || claims.Purpose != token.PurposeReset {
		return errors.InvalidToken()
	}

	user, err := s.users.FindByEmail(ctx, claims.User.Email)
	if err != nil {
		return store.FromDatabase(err, "user")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return errors.Validation(err.Error())
	}
	if err := s.users.UpdateFields(ctx, user.UID, map[string]interface{}{"password_hash": hash}); err != nil {
		return store.FromDatabase(err, "user")
	}

	s.log.Info("Password reset", map[string]interface{}{"uid": user.UID.String()})
	return nil
}

// SendWelcomeMail delivers a welcome email to the given address.
func (s *Service) SendWelcomeMail(ctx context.Context, email string) error {
	_, span := tracer.Start(ctx, "SendWelcomeMail")
	defer span.End()

	body := "<p>Welcome to TaskCollab! Your account is ready to use.</p>"
	mail.SendAsync(s.mailer, s.log, []string{email}, "Welcome to TaskCollab", body)
	return nil
}

// issuePair signs a fresh access/refresh pair for the user.
func (s *Service) issuePair(user *store.User) (*TokenPair, error) {
	sub := token.Subject{
		UID:   user.UID.String(),
		Email: user.Email,
		Role:  string(user.Role),
	}

	access, accessClaims, err := s.codec.IssueAccess(sub)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("issue access: %w", err))
	}
	refresh, _, err := s.codec.IssueRefresh(sub)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("issue refresh: %w", err))
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(accessClaims.ExpiresIn(time.Now()).Seconds()),
	}, nil
}

// sendVerificationMail emails the signup verification link.
func (s *Service) sendVerificationMail(email string) {
	verifyToken, err := s.codec.IssuePurpose(email, token.PurposeVerify)
	if err != nil {
		s.log.Error("Failed to issue verification token", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	link := fmt.Sprintf("http://%s%s/%s", s.links.Domain, s.links.VerifyPath, verifyToken)
	body := fmt.Sprintf(`<p>Thanks for signing up!</p>
<p>Please <a href="%s">verify your account</a> to start using TaskCollab.</p>`, link)

	mail.SendAsync(s.mailer, s.log, []string{email}, "Verify your account", body)
}
