package assets

import (
	"embed"
	"io/fs"
)

//go:embed vocabulary.json
var FS embed.FS

//go:embed sql/*.sql
var migrations embed.FS

// Vocabulary returns the raw leveled vocabulary dataset.
func Vocabulary() ([]byte, error) {
	return FS.ReadFile("vocabulary.json")
}

// Migrations exposes the embedded SQL migrations rooted at "sql".
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "sql")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(err)
	}
	return sub
}
