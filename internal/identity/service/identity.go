package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	identityerrors "rentwheels/internal/identity/errors"
	"rentwheels/internal/identity/repository"
	"rentwheels/internal/identity/token"
	"rentwheels/internal/identity/validator"
	"rentwheels/pkg/config"
	apperrors "rentwheels/pkg/errors"
	"rentwheels/pkg/mail"
	"rentwheels/pkg/model"
	"rentwheels/pkg/sanitizer"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// RegistrationResult tells the handler which registration path ran and
// what to hand back to the client.
type RegistrationResult struct {
	Token                     string
	Message                   string
	RequiresEmailVerification bool
	PendingApproval           bool
}

// VerificationResult is the outcome of following an email verification
// link: the freshly created account plus a token for auto-login.
type VerificationResult struct {
	User  *model.User
	Token string
}

type IdentityService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*RegistrationResult, error)
	Login(ctx context.Context, req *model.LoginRequest) (string, error)
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	VerifyEmail(ctx context.Context, verificationToken string) (*VerificationResult, error)
	Approve(ctx context.Context, approvalToken string) (*model.User, error)
	Reject(ctx context.Context, approvalToken string) (*model.User, error)
}

type identityService struct {
	userRepo    repository.UserRepository
	pendingRepo repository.PendingUserRepository
	validator   *validator.UserValidator
	tokens      *token.Manager
	dispatcher  mail.Dispatcher
	cfg         *config.Config
}

func NewIdentityService(
	userRepo repository.UserRepository,
	pendingRepo repository.PendingUserRepository,
	validator *validator.UserValidator,
	tokens *token.Manager,
	dispatcher mail.Dispatcher,
	cfg *config.Config,
) IdentityService {
	return &identityService{
		userRepo:    userRepo,
		pendingRepo: pendingRepo,
		validator:   validator,
		tokens:      tokens,
		dispatcher:  dispatcher,
		cfg:         cfg,
	}
}

func (s *identityService) Register(ctx context.Context, req *model.RegisterRequest) (*RegistrationResult, error) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if req.Role == "" {
		req.Role = model.RoleUser
	}

	if err := s.validator.ValidateRegistration(req); err != nil {
		s.cfg.Log.Warn("Registration validation failed", "email", req.Email, "error", err)
		return nil, apperrors.InvalidInput("Fill all the fields correctly. Password must be at least 8 characters")
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Conflict("This email is already registered. Please login instead.")
	} else if !errors.Is(err, identityerrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to check existing accounts", err)
	}

	switch s.cfg.RegistrationMode {
	case config.RegistrationVerify:
		return s.registerWithVerification(ctx, req)
	case config.RegistrationApprove:
		return s.registerWithApproval(ctx, req)
	default:
		return s.registerDirect(ctx, req)
	}
}

func (s *identityService) registerDirect(ctx context.Context, req *model.RegisterRequest) (*RegistrationResult, error) {
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to process registration", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   hashed,
		Role:       req.Role,
		IsApproved: true,
		ApprovedAt: &now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, identityerrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("This email is already registered. Please login instead.")
		}
		return nil, apperrors.Internal("Failed to create account", err)
	}

	authToken, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("User registered", "user_id", user.ID, "role", user.Role, "mode", config.RegistrationDirect)
	return &RegistrationResult{Token: authToken}, nil
}

func (s *identityService) registerWithVerification(ctx context.Context, req *model.RegisterRequest) (*RegistrationResult, error) {
	if _, err := s.pendingRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Conflict("A verification email has already been sent to this address. Please check your email or try again after 24 hours.")
	} else if !errors.Is(err, identityerrors.ErrPendingNotFound) {
		return nil, apperrors.Internal("Failed to check pending registrations", err)
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to process registration", err)
	}

	verificationToken, err := generateToken()
	if err != nil {
		return nil, apperrors.Internal("Failed to generate verification token", err)
	}

	pending := &model.PendingUser{
		Name:              req.Name,
		Email:             req.Email,
		Password:          hashed,
		Role:              req.Role,
		VerificationToken: verificationToken,
		ExpiresAt:         time.Now().UTC().Add(s.cfg.VerificationTTL),
	}

	if err := s.pendingRepo.Create(ctx, pending); err != nil {
		if errors.Is(err, identityerrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("A verification email has already been sent to this address. Please check your email or try again after 24 hours.")
		}
		return nil, apperrors.Internal("Failed to stage registration", err)
	}

	email, err := mail.NewVerificationEmail(req.Name, req.Email, s.cfg.BackendURL, verificationToken)
	if err == nil {
		err = s.dispatcher.Dispatch(ctx, email)
	}
	if err != nil {
		// The pending record is useless without its email, so roll it back
		// and let the client retry cleanly.
		if delErr := s.pendingRepo.DeleteByEmail(ctx, req.Email); delErr != nil {
			s.cfg.Log.Error("Failed to roll back pending registration", "email", req.Email, "error", delErr)
		}
		s.cfg.Log.Error("Failed to enqueue verification email", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to send verification email. Please make sure you're using a valid email address and try again.", err)
	}

	s.cfg.Log.Info("Registration staged for verification", "email", req.Email, "role", req.Role)
	return &RegistrationResult{
		Message: fmt.Sprintf(
			"Registration initiated! We've sent a verification link to %s. Please check your email and click the link to complete your registration. The link will expire in 24 hours.",
			req.Email,
		),
		RequiresEmailVerification: true,
	}, nil
}

func (s *identityService) registerWithApproval(ctx context.Context, req *model.RegisterRequest) (*RegistrationResult, error) {
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to process registration", err)
	}

	approvalToken, err := generateToken()
	if err != nil {
		return nil, apperrors.Internal("Failed to generate approval token", err)
	}

	user := &model.User{
		Name:          req.Name,
		Email:         req.Email,
		Password:      hashed,
		Role:          req.Role,
		IsApproved:    false,
		ApprovalToken: approvalToken,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, identityerrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("This email is already registered. Please login instead.")
		}
		return nil, apperrors.Internal("Failed to create account", err)
	}

	email, err := mail.NewApprovalRequestEmail(req.Name, req.Email, req.Role, s.cfg.AdminEmail, s.cfg.BackendURL, approvalToken)
	if err == nil {
		err = s.dispatcher.Dispatch(ctx, email)
	}
	if err != nil {
		if delErr := s.userRepo.Delete(ctx, user.ID); delErr != nil {
			s.cfg.Log.Error("Failed to roll back unapproved account", "user_id", user.ID, "error", delErr)
		}
		s.cfg.Log.Error("Failed to enqueue approval request email", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to submit registration for approval. Please try again.", err)
	}

	s.cfg.Log.Info("Registration awaiting approval", "user_id", user.ID, "role", user.Role)
	return &RegistrationResult{
		Message:         "Registration submitted! An administrator will review your request and you'll receive an email once it's approved.",
		PendingApproval: true,
	}, nil
}

func (s *identityService) Login(ctx context.Context, req *model.LoginRequest) (string, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)

	if err := s.validator.ValidateLogin(req); err != nil {
		return "", apperrors.InvalidInput("Please provide a valid email address")
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, identityerrors.ErrNotFound) {
			return "", apperrors.NotFound("No account found with this email. Please sign up first.")
		}
		return "", apperrors.Internal("Failed to look up account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", apperrors.Unauthorized("Incorrect password")
	}

	if !user.IsApproved {
		return "", apperrors.Forbidden("Your account is pending approval. You'll receive an email once an administrator reviews your request.")
	}

	authToken, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return authToken, nil
}

func (s *identityService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, identityerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", userID)
		}
		if errors.Is(err, identityerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	return user, nil
}

func (s *identityService) VerifyEmail(ctx context.Context, verificationToken string) (*VerificationResult, error) {
	if verificationToken == "" {
		return nil, apperrors.InvalidInput("Verification token cannot be empty")
	}

	pending, err := s.pendingRepo.FindByToken(ctx, verificationToken)
	if err != nil {
		if errors.Is(err, identityerrors.ErrPendingNotFound) {
			return nil, apperrors.NotFound("This verification link is invalid or has expired")
		}
		return nil, apperrors.Internal("Failed to look up verification token", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		Name:       pending.Name,
		Email:      pending.Email,
		Password:   pending.Password,
		Role:       pending.Role,
		IsApproved: true,
		ApprovedAt: &now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, identityerrors.ErrDuplicateEmail) {
			// A parallel click on the same link beat us. Drop the pending
			// record and report the link spent.
			if delErr := s.pendingRepo.Delete(ctx, pending.ID); delErr != nil {
				s.cfg.Log.Warn("Failed to clean up pending registration", "email", pending.Email, "error", delErr)
			}
			return nil, apperrors.Conflict("This email has already been verified. Please login instead.")
		}
		return nil, apperrors.Internal("Failed to create account", err)
	}

	if err := s.pendingRepo.Delete(ctx, pending.ID); err != nil {
		s.cfg.Log.Warn("Failed to delete pending registration after verification", "email", pending.Email, "error", err)
	}

	authToken, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("Email verified, account created", "user_id", user.ID, "role", user.Role)
	return &VerificationResult{User: user, Token: authToken}, nil
}

func (s *identityService) Approve(ctx context.Context, approvalToken string) (*model.User, error) {
	if approvalToken == "" {
		return nil, apperrors.InvalidInput("Approval token cannot be empty")
	}

	user, err := s.userRepo.FindByApprovalToken(ctx, approvalToken)
	if err != nil {
		if errors.Is(err, identityerrors.ErrTokenNotFound) {
			return nil, apperrors.NotFound("This approval link is invalid or has expired")
		}
		return nil, apperrors.Internal("Failed to look up approval token", err)
	}

	if err := s.userRepo.Approve(ctx, user.ID); err != nil {
		return nil, apperrors.Internal("Failed to approve account", err)
	}
	user.IsApproved = true

	email, mailErr := mail.NewApprovedEmail(user.Name, user.Email, s.cfg.FrontendURL)
	if mailErr == nil {
		mailErr = s.dispatcher.Dispatch(ctx, email)
	}
	if mailErr != nil {
		// The approval itself succeeded; losing the notification is
		// recoverable, so only log.
		s.cfg.Log.Error("Failed to enqueue approval notification", "user_id", user.ID, "error", mailErr)
	}

	s.cfg.Log.Info("Account approved", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *identityService) Reject(ctx context.Context, approvalToken string) (*model.User, error) {
	if approvalToken == "" {
		return nil, apperrors.InvalidInput("Approval token cannot be empty")
	}

	user, err := s.userRepo.FindByApprovalToken(ctx, approvalToken)
	if err != nil {
		if errors.Is(err, identityerrors.ErrTokenNotFound) {
			return nil, apperrors.NotFound("This rejection link is invalid or has expired")
		}
		return nil, apperrors.Internal("Failed to look up approval token", err)
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return nil, apperrors.Internal("Failed to remove rejected account", err)
	}

	email, mailErr := mail.NewRejectedEmail(user.Name, user.Email)
	if mailErr == nil {
		mailErr = s.dispatcher.Dispatch(ctx, email)
	}
	if mailErr != nil {
		s.cfg.Log.Error("Failed to enqueue rejection notification", "user_id", user.ID, "error", mailErr)
	}

	s.cfg.Log.Info("Registration rejected", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
