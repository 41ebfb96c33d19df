package resolver

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamePrefixFallback(t *testing.T) {
	cases := []struct {
		name      string
		storedKey string
		query     string
	}{
		{name: "exact match", storedKey: "0xABCD", query: "0xABCD"},
		{name: "prefix added", storedKey: "0xABCD", query: "ABCD"},
		{name: "prefix stripped", storedKey: "ABCD", query: "0xABCD"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			// Misses return no rows until the stored key is tried.
			for _, candidate := range []string{tc.query, other(tc.query)} {
				if candidate == tc.storedKey {
					mock.ExpectQuery("SELECT name FROM validators").
						WithArgs(candidate).
						WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Berachain Foundation"))
					break
				}
				mock.ExpectQuery("SELECT name FROM validators").
					WithArgs(candidate).
					WillReturnRows(sqlmock.NewRows([]string{"name"}))
			}

			r := NewFromDB(db)
			assert.Equal(t, "Berachain Foundation", r.Name(tc.query))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// other returns the prefix-variant candidate the resolver tries second.
func other(address string) string {
	if len(address) > 2 && address[:2] == "0x" {
		return address[2:]
	}
	return "0x" + address
}

func TestNameMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT name FROM validators").WillReturnRows(sqlmock.NewRows([]string{"name"}))
	mock.ExpectQuery("SELECT name FROM validators").WillReturnRows(sqlmock.NewRows([]string{"name"}))

	r := NewFromDB(db)
	assert.Equal(t, "", r.Name("0xEEEE"))
}

func TestNameStoreErrorIsNotFatal(t *testing.T) {
	broken, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer broken.Close()
	mock.ExpectQuery("SELECT name FROM validators").WillReturnError(fmt.Errorf("disk I/O error"))
	mock.ExpectQuery("SELECT name FROM validators").WillReturnError(fmt.Errorf("disk I/O error"))

	good, goodMock, err := sqlmock.New()
	require.NoError(t, err)
	defer good.Close()
	goodMock.ExpectQuery("SELECT name FROM validators").
		WithArgs("0xABCD").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Backup Name"))

	r := NewFromDB(broken, good)
	assert.Equal(t, "Backup Name", r.Name("0xABCD"))
}

func TestNameEmptyAddress(t *testing.T) {
	r := NewFromDB()
	assert.Equal(t, "", r.Name(""))
}

func TestOpenMissingStore(t *testing.T) {
	// sql.Open defers the actual file access; lookups against a missing
	// store must miss quietly rather than fail.
	r := Open("/nonexistent/validators.db")
	defer r.Close()
	assert.Equal(t, "", r.Name("0xABCD"))
}
