package store

import (
	"context"
	"regexp"

	srvErrors "github.com/exscriptd/orderdb/pkg/errors"
)

const DefaultTablePrefix = "exscriptd_"

var prefixPattern = regexp.MustCompile(`^[A-Za-z0-9_]*$`)

// Schema creates and drops the order, host and variable tables.
type Schema struct {
	*conn
}

// Install creates all tables and indexes. It is idempotent.
func (s *Schema) Install(ctx context.Context) error {
	return s.inTx(ctx, "install", func(ctx context.Context, u *unitOfWork) error {
		return execAll(ctx, u, createStatements(s.dialect, u.tables))
	})
}

// Uninstall drops all tables, including their content.
func (s *Schema) Uninstall(ctx context.Context) error {
	return s.inTx(ctx, "uninstall", func(ctx context.Context, u *unitOfWork) error {
		return execAll(ctx, u, dropStatements(s.dialect, u.tables))
	})
}

// Clear deletes every order together with its hosts and variables.
func (s *Schema) Clear(ctx context.Context) error {
	return s.inTx(ctx, "clear", func(ctx context.Context, u *unitOfWork) error {
		return execAll(ctx, u, clearStatements(s.dialect, u.tables))
	})
}

// SetTablePrefix changes the prefix of all table names. Call it before any
// data operation; it is not safe while a transaction is running.
func (s *Schema) SetTablePrefix(prefix string) error {
	if !prefixPattern.MatchString(prefix) {
		return srvErrors.NewInvalidArgumentErrorf("prefix", "%q may only contain letters, digits and underscores", prefix)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefix = prefix
	return nil
}

func (s *Schema) TablePrefix() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefix
}

func (s *Schema) Tables() Tables {
	return s.tables()
}

func execAll(ctx context.Context, u *unitOfWork, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := u.tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
