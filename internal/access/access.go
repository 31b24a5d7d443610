// Package access implements the authorization chokepoint for containers.
// Every operation that reads or mutates a container, or anything it owns,
// must pass through Authorize first.
package access

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"

	"github.com/PpairNode/LibStock/internal/model"
	"github.com/PpairNode/LibStock/internal/store"
)

// ErrDenied is returned for malformed container identifiers, unknown
// containers and requesters that are neither admin nor member. The three
// cases are deliberately indistinguishable to the caller so container
// identifiers cannot be probed.
var ErrDenied = errors.New("access denied")

// Authorize resolves the raw container identifier and checks that the
// requester is allowed to access it. On success it returns the full
// container document.
func Authorize(ctx context.Context, db *sql.DB, rawID string, requester model.Identity) (*model.Container, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		slog.Warn("malformed container id", "raw", rawID, "user_id", requester.ID)
		return nil, ErrDenied
	}

	container, err := store.GetContainer(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if container == nil {
		return nil, ErrDenied
	}

	if !container.HasMember(requester.ID) {
		slog.Warn("unauthorized container access",
			"container_id", id,
			"user_id", requester.ID,
			"username", requester.Username,
		)
		return nil, ErrDenied
	}

	return container, nil
}
