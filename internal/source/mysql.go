// Package source fetches raw transaction tables from MySQL/MariaDB as an
// alternative to flat-file input. Rows are materialized into the same
// dataset.Table the CSV loader produces, so the rest of the pipeline does
// not care where the data came from.
package source

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/cohortlab/rfmctl/internal/dataset"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Open connects using either a driver DSN or a mysql:// / mariadb:// URL.
func Open(dsn string) (*sql.DB, error) {
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// toMySQLDSN converts mariadb:// or mysql:// URLs into the driver's DSN
// format; anything else is passed through untouched.
func toMySQLDSN(dsn string) (string, error) {
	if !strings.HasPrefix(dsn, "mariadb://") && !strings.HasPrefix(dsn, "mysql://") {
		return dsn, nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}
	user := ""
	pass := ""
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	host := u.Host
	db := strings.TrimPrefix(u.Path, "/")
	if user == "" || host == "" || db == "" {
		return "", fmt.Errorf("incomplete dsn: need user, host and database")
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?interpolateParams=true", user, pass, host, db), nil
}

// Fetch selects the bound transaction columns from a table into a
// dataset.Table. The result carries the binding names as its header, so
// downstream validation and cleaning see the same schema a CSV would give
// them.
func Fetch(ctx context.Context, db *sql.DB, table string, b dataset.Bindings) (*dataset.Table, error) {
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	b = b.Normalize()
	cols := b.Required()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		if !tableNameRe.MatchString(c) {
			return nil, fmt.Errorf("invalid column name %q", c)
		}
		quoted[i] = "`" + c + "`"
	}

	q := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), table)
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var data [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		row := make([]string, len(cols))
		for i, c := range cells {
			if c.Valid {
				row[i] = c.String
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}
	header := make([]string, len(cols))
	copy(header, cols)
	return dataset.New(header, data), nil
}
