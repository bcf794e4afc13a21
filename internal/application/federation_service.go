// Package application provides the application layer services.
package application

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/fedicore/internal/application/dto"
	"github.com/turtacn/fedicore/internal/domain/models"
	"github.com/turtacn/fedicore/internal/domain/repository"
	"github.com/turtacn/fedicore/internal/domain/service"
	"github.com/turtacn/fedicore/pkg/constants"
	"github.com/turtacn/fedicore/pkg/errors"
	"github.com/turtacn/fedicore/pkg/logger"
	"github.com/turtacn/fedicore/pkg/utils"
)

// FederationService is the application-layer entry point the routing layer calls.
// FederationService 是路由层调用的应用层入口。
type FederationService interface {
	// GetActor returns the Person document of username.
	// GetActor 返回 username 的 Person 文档。
	GetActor(ctx context.Context, username string) (*models.Actor, error)

	// ResolveWebFinger resolves an acct: resource to its discovery document.
	// ResolveWebFinger 将 acct: 资源解析为其发现文档。
	ResolveWebFinger(ctx context.Context, resource string) (*models.WebFinger, error)

	// SubmitNote builds a Create(Note), signs it and delivers it to req.Inbox.
	// SubmitNote 构建 Create(Note)，签名后投递至 req.Inbox。
	SubmitNote(ctx context.Context, username, noteID string, req *dto.SubmitNoteRequest) (*dto.SubmitNoteResponse, error)
}

type federationService struct {
	domain    string
	host      string
	users     repository.UserRepository
	signer    service.RequestSigner
	deliverer service.Deliverer
	metrics   service.Metrics
	tracer    service.Tracer
	now       func() time.Time
	logger    logger.Logger
}

// NewFederationService creates a new instance of the FederationService.
// domain is this node's origin, e.g. "https://example.com".
// NewFederationService 创建 FederationService 的一个新实例。
func NewFederationService(
	domain string,
	users repository.UserRepository,
	signer service.RequestSigner,
	deliverer service.Deliverer,
	metrics service.Metrics,
	tracer service.Tracer,
	log logger.Logger,
) FederationService {
	if metrics == nil {
		metrics = service.NoopMetrics{}
	}
	return &federationService{
		domain:    domain,
		host:      service.HostOf(domain),
		users:     users,
		signer:    signer,
		deliverer: deliverer,
		metrics:   metrics,
		tracer:    tracer,
		now:       time.Now,
		logger:    log.WithComponent("FederationService"),
	}
}

func (s *federationService) GetActor(ctx context.Context, username string) (*models.Actor, error) {
	if err := utils.ValidateUsername(username); err != nil {
		return nil, errors.ErrAccountNotFound(username)
	}

	user, err := s.users.GetOrCreate(ctx, username)
	if err != nil {
		return nil, err
	}

	actor, err := service.BuildActor(user, s.domain)
	if err != nil {
		s.logger.Error(ctx, "Cached key material could not be encoded", err, logger.String("username", username))
		return nil, err
	}
	s.metrics.RecordDocumentServed(service.DocumentActor)
	return actor, nil
}

func (s *federationService) ResolveWebFinger(ctx context.Context, resource string) (*models.WebFinger, error) {
	username, domain, ok := service.ParseAcct(resource)
	if !ok {
		return nil, errors.ErrAcctParseMismatch(resource)
	}
	if !strings.EqualFold(domain, s.host) || utils.ValidateUsername(username) != nil {
		return nil, errors.ErrResourceNotFound(resource)
	}

	user, err := s.users.GetOrCreate(ctx, username)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordDocumentServed(service.DocumentWebFinger)
	return service.BuildWebFinger(user, s.domain), nil
}

func (s *federationService) SubmitNote(ctx context.Context, username, noteID string, req *dto.SubmitNoteRequest) (*dto.SubmitNoteResponse, error) {
	ctx, span := s.tracer.StartSpan(ctx, "FederationService.SubmitNote", trace.WithAttributes(
		attribute.String("fedicore.username", username),
		attribute.String("fedicore.note_id", noteID),
	))
	defer span.End()

	resp, err := s.submitNote(ctx, username, noteID, req)
	if err != nil {
		s.tracer.RecordError(ctx, err, map[string]interface{}{"fedicore.error_kind": string(errors.KindOf(err))})
		return nil, err
	}
	span.SetAttributes(attribute.Int("fedicore.remote_status", resp.RemoteStatus))
	return resp, nil
}

func (s *federationService) submitNote(ctx context.Context, username, noteID string, req *dto.SubmitNoteRequest) (*dto.SubmitNoteResponse, error) {
	// 1. Validate input
	if err := utils.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := utils.ValidateNoteID(noteID); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.ErrInvalidParameter("body", "is required")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	// 2. Resolve the author and build the activity
	user, err := s.users.GetOrCreate(ctx, username)
	if err != nil {
		return nil, err
	}
	ids := models.DeriveIdentity(s.domain, username)
	activity := service.BuildCreateNote(ids, noteID, req.Content, req.InReplyTo, s.now())

	// 3. Serialize once; these bytes are signed and sent unchanged
	body, err := json.Marshal(activity)
	if err != nil {
		return nil, errors.ErrInternal("failed to serialize activity", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Inbox, bytes.NewReader(body))
	if err != nil {
		return nil, errors.ErrInvalidParameter("inbox", err.Error())
	}
	httpReq.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	// 4. Sign; an unsigned request is never sent
	if err := s.signer.SignRequest(httpReq, body, ids.KeyID, user.PrivateKey); err != nil {
		s.metrics.RecordSignature(false)
		if _, ok := errors.AsAppError(err); !ok {
			err = errors.ErrSigningFailed(ids.KeyID, err)
		}
		s.logger.Error(ctx, "Failed to sign delivery", err,
			logger.String("username", username),
			logger.String("key_id", ids.KeyID),
		)
		return nil, err
	}
	s.metrics.RecordSignature(true)

	// 5. Hand off to the transport
	start := time.Now()
	status, err := s.deliverer.Deliver(ctx, httpReq)
	s.metrics.RecordDelivery(status, time.Since(start))
	if err != nil {
		if _, ok := errors.AsAppError(err); !ok {
			err = errors.ErrDeliveryFailed(req.Inbox, err)
		}
		return nil, err
	}

	s.logger.Info(ctx, "Note delivered",
		logger.String("activity_id", activity.ID),
		logger.String("inbox", req.Inbox),
		logger.Int("remote_status", status),
	)
	return &dto.SubmitNoteResponse{
		ActivityID:   activity.ID,
		Inbox:        req.Inbox,
		RemoteStatus: status,
	}, nil
}
