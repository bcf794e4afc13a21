package service

import (
	"net/url"
	"strings"

	"github.com/turtacn/fedicore/internal/domain/models"
	"github.com/turtacn/fedicore/internal/infrastructure/crypto"
	"github.com/turtacn/fedicore/pkg/constants"
	"github.com/turtacn/fedicore/pkg/errors"
)

// Document kinds reported to Metrics.RecordDocumentServed.
const (
	DocumentActor     = "actor"
	DocumentWebFinger = "webfinger"
)

// BuildActor renders the Person profile of user on domain.
// The only failure is KeyEncodingFailed when the cached public key does not decode.
func BuildActor(user *models.User, domain string) (*models.Actor, error) {
	publicKeyPem, err := crypto.PublicKeyPEM(user.PublicKey)
	if err != nil {
		return nil, errors.ErrKeyEncodingFailed(user.Username, err)
	}

	ids := models.DeriveIdentity(domain, user.Username)
	return &models.Actor{
		Context:           []string{constants.ActivityStreamsContext, constants.SecurityContext},
		ID:                ids.ActorID,
		Type:              constants.TypePerson,
		PreferredUsername: user.Username,
		Inbox:             ids.Inbox,
		PublicKey: models.PublicKey{
			ID:           ids.KeyID,
			Owner:        ids.ActorID,
			PublicKeyPem: publicKeyPem,
		},
	}, nil
}

// BuildWebFinger renders the discovery document of user on domain.
// The subject uses the host part of domain, so "https://example.com" and "example.com"
// both yield acct:user@example.com.
func BuildWebFinger(user *models.User, domain string) *models.WebFinger {
	ids := models.DeriveIdentity(domain, user.Username)
	return &models.WebFinger{
		Subject: constants.AcctScheme + user.Username + "@" + HostOf(domain),
		Aliases: []string{ids.ActorID},
		Links: []models.Link{{
			Rel:  constants.WebFingerRelSelf,
			Type: constants.ContentTypeActivityJSON,
			Href: ids.ActorID,
		}},
	}
}

// ParseAcct splits an "acct:user@domain" resource on its first '@'.
// ok is false for anything without the literal acct: prefix or without two non-empty parts.
func ParseAcct(resource string) (username, domain string, ok bool) {
	rest, found := strings.CutPrefix(resource, constants.AcctScheme)
	if !found {
		return "", "", false
	}
	username, domain, found = strings.Cut(rest, "@")
	if !found || username == "" || domain == "" {
		return "", "", false
	}
	return username, domain, true
}

// HostOf strips the scheme from an origin such as "https://example.com".
// Strings without a scheme are returned as-is.
func HostOf(domain string) string {
	if !strings.Contains(domain, "://") {
		return domain
	}
	u, err := url.Parse(domain)
	if err != nil || u.Host == "" {
		return domain
	}
	return u.Host
}
