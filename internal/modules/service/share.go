package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/backend"
	"github.com/saas-factory/api/internal/config"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
	"github.com/saas-factory/api/internal/pkg/utils/secrets"
	"github.com/saas-factory/api/internal/pkg/utils/tokens"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type ShareService interface {
	Create(ctx context.Context, in ShareInput) (*ShareOutput, error)
	Get(ctx context.Context, userID, projectID uuid.UUID) (*model.ShareSetting, error)
	Update(ctx context.Context, in UpdateShareInput) (*model.ShareSetting, error)
	Delete(ctx context.Context, userID, projectID uuid.UUID) error
	Resolve(ctx context.Context, token, email string) (*model.Project, error)
}

type shareService struct {
	resolver *backend.Resolver
	cfg      config.ShareCfg
	validate *validator.Validate
	rec      recorder
	log      *zap.Logger
}

func NewShareService(resolver *backend.Resolver, cfg config.ShareCfg, log *zap.Logger) ShareService {
	if cfg.TokenPrefix == "" {
		cfg.TokenPrefix = "shr_"
	}
	return &shareService{
		resolver: resolver,
		cfg:      cfg,
		validate: validator.New(),
		rec:      recorder{log: log},
		log:      log,
	}
}

type ShareInput struct {
	UserID        uuid.UUID
	ProjectID     uuid.UUID
	IsPublic      bool
	AllowedEmails []string
}

type UpdateShareInput struct {
	UserID        uuid.UUID
	ProjectID     uuid.UUID
	IsPublic      *bool
	AllowedEmails *[]string
}

type ShareOutput struct {
	Share *model.ShareSetting `json:"share"`
	// Token is only returned when it is issued.
	Token string `json:"token"`
	Path  string `json:"share_path"`
}

func (s *shareService) normalizeEmails(in []string) ([]string, error) {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, e := range in {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || seen[e] {
			continue
		}
		if err := s.validate.Var(e, "email"); err != nil {
			return nil, newError(ErrValidation, "invalid email address %q", e)
		}
		seen[e] = true
		out = append(out, e)
	}
	return out, nil
}

// Create issues a fresh token. An existing share for the project is replaced, which
// revokes the previous link.
func (s *shareService) Create(ctx context.Context, in ShareInput) (*ShareOutput, error) {
	b := s.resolver.For(ctx)
	if _, err := loadOwned(ctx, b, in.ProjectID, in.UserID); err != nil {
		return nil, err
	}
	emails, err := s.normalizeEmails(in.AllowedEmails)
	if err != nil {
		return nil, err
	}

	raw, err := tokens.New(s.cfg.TokenPrefix)
	if err != nil {
		return nil, fmt.Errorf("generate share token: %w", err)
	}
	phc, err := secrets.HashSecret(raw, s.cfg.SecretPepper)
	if err != nil {
		return nil, fmt.Errorf("hash share token: %w", err)
	}

	sh := &model.ShareSetting{
		ProjectID:     in.ProjectID,
		UserID:        in.UserID,
		TokenHMAC:     tokens.HMAC256Hex(s.cfg.SecretPepper, raw),
		TokenHashPHC:  phc,
		TokenHint:     tokens.Hint(raw),
		IsPublic:      in.IsPublic,
		AllowedEmails: datatypes.NewJSONType(emails),
	}
	if err := b.Shares().Upsert(ctx, sh); err != nil {
		return nil, fmt.Errorf("save share: %w", err)
	}

	s.rec.record(ctx, b, in.ProjectID, in.UserID, model.ActionProjectShared, "Created share link", map[string]any{
		"is_public":      in.IsPublic,
		"allowed_emails": len(emails),
	})
	return &ShareOutput{Share: sh, Token: raw, Path: "/shared/" + raw}, nil
}

func (s *shareService) Get(ctx context.Context, userID, projectID uuid.UUID) (*model.ShareSetting, error) {
	b := s.resolver.For(ctx)
	if _, err := loadOwned(ctx, b, projectID, userID); err != nil {
		return nil, err
	}
	sh, err := b.Shares().Get(ctx, projectID, userID)
	if err != nil {
		return nil, notFoundOr(err, "share")
	}
	return sh, nil
}

// Update changes visibility without rotating the token.
func (s *shareService) Update(ctx context.Context, in UpdateShareInput) (*model.ShareSetting, error) {
	b := s.resolver.For(ctx)
	if _, err := loadOwned(ctx, b, in.ProjectID, in.UserID); err != nil {
		return nil, err
	}
	sh, err := b.Shares().Get(ctx, in.ProjectID, in.UserID)
	if err != nil {
		return nil, notFoundOr(err, "share")
	}
	if in.IsPublic != nil {
		sh.IsPublic = *in.IsPublic
	}
	if in.AllowedEmails != nil {
		emails, err := s.normalizeEmails(*in.AllowedEmails)
		if err != nil {
			return nil, err
		}
		sh.AllowedEmails = datatypes.NewJSONType(emails)
	}
	if err := b.Shares().Update(ctx, sh); err != nil {
		return nil, notFoundOr(err, "share")
	}
	s.rec.record(ctx, b, in.ProjectID, in.UserID, model.ActionShareUpdated, "Updated share settings", map[string]any{
		"is_public": sh.IsPublic,
	})
	return sh, nil
}

func (s *shareService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	b := s.resolver.For(ctx)
	if _, err := loadOwned(ctx, b, projectID, userID); err != nil {
		return err
	}
	if err := b.Shares().Delete(ctx, projectID, userID); err != nil {
		return fmt.Errorf("delete share: %w", err)
	}
	s.rec.record(ctx, b, projectID, userID, model.ActionShareRevoked, "Revoked share link", nil)
	return nil
}

// Resolve grants read access through a share token. Public shares admit anyone; private
// shares need the caller's email on the allow list.
func (s *shareService) Resolve(ctx context.Context, token, email string) (*model.Project, error) {
	notFound := newError(ErrNotFound, "shared project not found")
	if _, ok := tokens.Parse(token, s.cfg.TokenPrefix); !ok {
		return nil, notFound
	}
	lookup := tokens.HMAC256Hex(s.cfg.SecretPepper, token)

	var (
		sh *model.ShareSetting
		b  backend.DataBackend
	)
	for _, cand := range s.resolver.All() {
		found, err := cand.Shares().GetByTokenHMAC(ctx, lookup)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lookup share: %w", err)
		}
		sh, b = found, cand
		break
	}
	if sh == nil {
		return nil, notFound
	}

	if s.cfg.EnableArgon2Verification {
		ok, err := secrets.VerifySecret(token, s.cfg.SecretPepper, sh.TokenHashPHC)
		if err != nil {
			s.log.Warn("share hash verification failed", zap.String("share_id", sh.ID.String()), zap.Error(err))
		}
		if !ok {
			return nil, notFound
		}
	}

	if !sh.IsPublic {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			return nil, newError(ErrValidation, "an email address is required to open this shared project")
		}
		allowed := false
		for _, e := range sh.AllowedEmails.Data() {
			if strings.EqualFold(e, email) {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, newError(ErrPermissionDenied, "this email address does not have access to the shared project")
		}
	}

	p, err := b.Projects().Get(ctx, sh.ProjectID)
	if err != nil {
		return nil, notFoundOr(err, "shared project")
	}
	return p, nil
}
