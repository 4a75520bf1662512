// Package postgres holds the database schema shared by the migration command
// and the integration-test containers.
package postgres

// Schema creates every table the service persists to. Statements are
// idempotent so reruns on an existing database are safe.
const Schema = `
CREATE TABLE IF NOT EXISTS audits (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	due_date DATE NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	submitted_at TIMESTAMPTZ,
	status TEXT NOT NULL,
	auditor_id UUID,
	sections JSONB NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_by UUID
);

CREATE INDEX IF NOT EXISTS idx_audits_auditor ON audits (auditor_id);
CREATE INDEX IF NOT EXISTS idx_audits_status ON audits (status);

CREATE TABLE IF NOT EXISTS auditors (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT '',
	assigned_audits UUID[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS templates (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	sections JSONB NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_by UUID,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'auditor',
	created_at TIMESTAMPTZ NOT NULL
);
`
