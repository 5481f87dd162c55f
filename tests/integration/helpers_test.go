//go:build integration

package integration

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/testutil"
)

// resetRoster empties the roster table before a test.
func resetRoster(t *testing.T) {
	t.Helper()
	_, err := testDB.Exec(context.Background(), "TRUNCATE pessoas_sobreaviso RESTART IDENTITY")
	require.NoError(t, err)
}

type entryOption func(url.Values)

func withTimes(entry, exit string) entryOption {
	return func(v url.Values) {
		v.Set("entrada", entry)
		v.Set("saida", exit)
	}
}

func withKind(kind string) entryOption {
	return func(v url.Values) { v.Set("tipo", kind) }
}

// createEntry submits the cadastro form for an entry starting on day and ending the day after.
func createEntry(t *testing.T, client *testutil.Client, name string, day time.Time, opts ...entryOption) {
	t.Helper()

	form := url.Values{
		"nome":        {name},
		"cidade":      {"Porto Alegre"},
		"dataEntrada": {day.Format(time.DateOnly)},
		"dataSaida":   {day.AddDate(0, 0, 1).Format(time.DateOnly)},
		"tipo":        {"técnico"},
	}
	for _, opt := range opts {
		opt(form)
	}

	resp, err := client.PostForm("/cadastro", form)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

// entryID returns the stored id of the entry with the given name.
func entryID(t *testing.T, name string) int64 {
	t.Helper()
	var id int64
	err := testDB.QueryRow(context.Background(), "SELECT id FROM pessoas_sobreaviso WHERE nome = $1", name).Scan(&id)
	require.NoError(t, err)
	return id
}

func countEntries(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, testDB.QueryRow(context.Background(), "SELECT count(*) FROM pessoas_sobreaviso").Scan(&n))
	return n
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
