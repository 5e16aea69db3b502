package repomanager

import (
	"context"
	"database/sql"

	"github.com/vkushnir/contactbook/internal/dbx"
	"github.com/vkushnir/contactbook/internal/server/repositories/contacts"
	"github.com/vkushnir/contactbook/internal/server/repositories/sessions"
	"github.com/vkushnir/contactbook/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same repository code inside and outside transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Contacts(db dbx.DBTX) contacts.Repository
}
