package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/errors"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

const (
	tableServices  = "services"
	tableResources = "resources"
	tableSettings  = "settings"
)

// Postgres is a Database implementation backed by postgres.
type Postgres struct {
	opts *Options
	pool *pgxpool.Pool
}

// NewPostgres returns a new Postgres database connection.
func NewPostgres(opts *Options) (*Postgres, error) {
	opts.SetDefaults()
	opts.URL = strings.Replace(opts.URL, "$"+opts.UsernameEnvVar, os.Getenv(opts.UsernameEnvVar), 1)
	opts.URL = strings.Replace(opts.URL, "$"+opts.PasswordEnvVar, os.Getenv(opts.PasswordEnvVar), 1)
	pool, err := pgxpool.New(context.Background(), opts.URL)
	return &Postgres{pool: pool, opts: opts}, err
}

// Close shuts down the database connection.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// Services returns services by name, or all services if names is nil.
func (p *Postgres) Services(names []string) ([]*structs.Service, error) {
	where := ""
	args := []interface{}{}
	if len(names) > 0 {
		s, a := toSqlIn(1, "name", names)
		where = fmt.Sprintf("WHERE %s", s)
		args = a
	}
	qstr := fmt.Sprintf(`SELECT name, image, command, env, ports, depends_on, is_dependency, ui_location, metadata,
	installation_status, installed, status_message, etag, created_at, updated_at FROM %s %s ORDER BY name;`,
		tableServices, where,
	)

	ctx := context.Background()
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, qstr, args...)
	if err != nil {
		return nil, err
	}

	services := []*structs.Service{}
	for rows.Next() {
		s := structs.Service{}
		var command, env, ports, metadata []byte
		err = rows.Scan(
			&s.Name,
			&s.Image,
			&command,
			&env,
			&ports,
			&s.DependsOn,
			&s.IsDependency,
			&s.UILocation,
			&metadata,
			&s.InstallationStatus,
			&s.Installed,
			&s.StatusMessage,
			&s.ETag,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err = decodeJSONColumns(&s, command, env, ports, metadata); err != nil {
			return nil, err
		}
		services = append(services, &s)
	}

	return services, nil
}

// UpsertServices writes catalog entries. Installation state on existing rows
// is kept; only spec fields are updated.
func (p *Postgres) UpsertServices(in []*structs.Service) error {
	if len(in) == 0 {
		return nil
	}

	vstrs, args := []string{}, []interface{}{}
	for _, s := range in {
		command, env, ports, metadata, err := encodeJSONColumns(s)
		if err != nil {
			return err
		}
		if s.CreatedAt == 0 {
			s.CreatedAt = timeNow()
			s.UpdatedAt = s.CreatedAt
		}
		if s.InstallationStatus == "" {
			s.InstallationStatus = structs.IDLE
		}
		vals := []string{}
		for i := len(args) + 1; i <= len(args)+15; i++ {
			vals = append(vals, fmt.Sprintf("$%d", i))
		}
		vstrs = append(vstrs, fmt.Sprintf("(%s)", strings.Join(vals, ", ")))
		args = append(args,
			s.Name, s.Image, command, env, ports, s.DependsOn, s.IsDependency, s.UILocation, metadata,
			string(s.InstallationStatus), s.Installed, s.StatusMessage, s.ETag, s.CreatedAt, s.UpdatedAt,
		)
	}

	qstr := fmt.Sprintf(`INSERT INTO %s (name, image, command, env, ports, depends_on, is_dependency, ui_location, metadata,
	installation_status, installed, status_message, etag, created_at, updated_at) VALUES %s
	ON CONFLICT (name) DO UPDATE SET
	image=EXCLUDED.image, command=EXCLUDED.command, env=EXCLUDED.env, ports=EXCLUDED.ports,
	depends_on=EXCLUDED.depends_on, is_dependency=EXCLUDED.is_dependency, ui_location=EXCLUDED.ui_location,
	metadata=EXCLUDED.metadata, updated_at=EXCLUDED.updated_at;`,
		tableServices, strings.Join(vstrs, ","),
	)

	ctx := context.Background()
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, qstr, args...)
	return err
}

// SetServiceStatus conditionally moves a service's installation status.
// Returns the number of rows updated; 0 means the stored status was not one
// of 'from' (ie. someone else holds the service or it moved on already).
func (p *Postgres) SetServiceStatus(name string, from []structs.InstallStatus, to structs.InstallStatus, message string) (int64, error) {
	cond, args := toSqlIn(6, "installation_status", statusToStrings(from))
	qstr := fmt.Sprintf(`UPDATE %s SET installation_status=$1, status_message=$2, etag=$3, updated_at=$4 WHERE name=$5 AND %s;`,
		tableServices, cond,
	)
	args = append([]interface{}{string(to), message, uuid.New().String(), timeNow(), name}, args...)

	ctx := context.Background()
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	info, err := conn.Exec(ctx, qstr, args...)
	if err == nil {
		return info.RowsAffected(), nil
	}
	return 0, err
}

// SetServiceInstalled marks a service installed.
func (p *Postgres) SetServiceInstalled(name string) error {
	qstr := fmt.Sprintf(`UPDATE %s SET installed=TRUE, etag=$1, updated_at=$2 WHERE name=$3;`, tableServices)

	ctx := context.Background()
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	info, err := conn.Exec(ctx, qstr, uuid.New().String(), timeNow(), name)
	if err != nil {
		return err
	}
	if info.RowsAffected() == 0 {
		return fmt.Errorf("%w service %s", errors.ErrNotFound, name)
	}
	return nil
}

// InsertResource records a successfully installed artifact.
func (p *Postgres) InsertResource(r *structs.InstalledResource) error {
	if r.InstalledAt == 0 {
		r.InstalledAt = timeNow()
	}
	qstr := fmt.Sprintf(`INSERT INTO %s (id, type, collection_ref, version, source_url, file_path, size_bytes, installed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`, tableResources)

	ctx := context.Background()
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, qstr,
		r.ID, string(r.Type), r.CollectionRef, r.Version, r.SourceURL, r.FilePath, r.SizeBytes, r.InstalledAt,
	)
	return err
}

// Resources returns installed resources, optionally filtered by type.
func (p *Postgres) Resources(rtype structs.ResourceType) ([]*structs.InstalledResource, error) {
	where := ""
	args := []interface{}{}
	if rtype != "" {
		where = "WHERE type=$1"
		args = append(args, string(rtype))
	}
	qstr := fmt.Sprintf(`SELECT id, type, collection_ref, version, source_url, file_path, size_bytes, installed_at
	FROM %s %s ORDER BY installed_at DESC;`, tableResources, where)

	ctx := context.Background()
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, qstr, args...)
	if err != nil {
		return nil, err
	}

	resources := []*structs.InstalledResource{}
	for rows.Next() {
		r := structs.InstalledResource{}
		err = rows.Scan(
			&r.ID,
			&r.Type,
			&r.CollectionRef,
			&r.Version,
			&r.SourceURL,
			&r.FilePath,
			&r.SizeBytes,
			&r.InstalledAt,
		)
		if err != nil {
			return nil, err
		}
		resources = append(resources, &r)
	}

	return resources, nil
}

// DeleteResource removes an installed resource record.
func (p *Postgres) DeleteResource(id string) error {
	qstr := fmt.Sprintf(`DELETE FROM %s WHERE id=$1;`, tableResources)

	ctx := context.Background()
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	info, err := conn.Exec(ctx, qstr, id)
	if err != nil {
		return err
	}
	if info.RowsAffected() == 0 {
		return fmt.Errorf("%w resource %s", errors.ErrNotFound, id)
	}
	return nil
}

// GetValue reads a settings key.
func (p *Postgres) GetValue(key string) (string, error) {
	qstr := fmt.Sprintf(`SELECT value FROM %s WHERE key=$1;`, tableSettings)

	ctx := context.Background()
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, qstr, key)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	if !rows.Next() {
		return "", fmt.Errorf("%w setting %s", errors.ErrNotFound, key)
	}
	var value string
	err = rows.Scan(&value)
	return value, err
}

// SetValue writes a settings key.
func (p *Postgres) SetValue(key, value string) error {
	qstr := fmt.Sprintf(`INSERT INTO %s (key, value, updated_at) VALUES ($1, $2, $3)
	ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at;`, tableSettings)

	ctx := context.Background()
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, qstr, key, value, timeNow())
	return err
}

// encodeJSONColumns marshals the service's structured columns.
func encodeJSONColumns(s *structs.Service) (command, env, ports, metadata []byte, err error) {
	command, err = json.Marshal(s.Command)
	if err != nil {
		return
	}
	env, err = json.Marshal(s.Env)
	if err != nil {
		return
	}
	ports, err = json.Marshal(s.Ports)
	if err != nil {
		return
	}
	metadata, err = json.Marshal(s.Metadata)
	return
}

// decodeJSONColumns unmarshals the service's structured columns.
func decodeJSONColumns(s *structs.Service, command, env, ports, metadata []byte) error {
	if err := json.Unmarshal(command, &s.Command); err != nil {
		return err
	}
	if err := json.Unmarshal(env, &s.Env); err != nil {
		return err
	}
	if err := json.Unmarshal(ports, &s.Ports); err != nil {
		return err
	}
	return json.Unmarshal(metadata, &s.Metadata)
}

// toSqlIn converts a list of strings into a SQL IN clause
func toSqlIn(offset int, field string, args []string) (string, []interface{}) {
	if len(args) == 0 {
		return "", []interface{}{}
	}
	vals := []string{}
	ifargs := []interface{}{}
	for i, a := range args {
		vals = append(vals, fmt.Sprintf("$%d", i+offset))
		ifargs = append(ifargs, a)
	}
	return fmt.Sprintf("%s IN (%s)", field, strings.Join(vals, ", ")), ifargs
}

// statusToStrings converts a list of statuses into a list of strings
func statusToStrings(in []structs.InstallStatus) []string {
	if in == nil || len(in) == 0 {
		return nil
	}
	out := []string{}
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}

// timeNow returns the current time in unix seconds
func timeNow() int64 {
	return time.Now().Unix()
}
