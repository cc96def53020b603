package repos

import (
	"database/sql"
	"errors"
	"strings"
)

// Page is a 1-based window over a list query.
type Page struct {
	Number int
	Size   int
}

func (p Page) limitOffset() (int, int) {
	size := p.Size
	if size <= 0 {
		size = 50
	}
	n := p.Number
	if n <= 0 {
		n = 1
	}
	return size, (n - 1) * size
}

// orderBy resolves a client ordering key ("field" or "-field") against an allow-list
// of field -> column. Unknown keys fall back to def.
func orderBy(key string, allowed map[string]string, def, tiebreak string) string {
	dir := "ASC"
	field := strings.TrimSpace(key)
	if strings.HasPrefix(field, "-") {
		dir = "DESC"
		field = field[1:]
	}
	col, ok := allowed[field]
	if !ok {
		return def + ", " + tiebreak + " DESC"
	}
	return col + " " + dir + ", " + tiebreak + " " + dir
}

// where accumulates AND-ed predicates with positional args.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// likeEscaper makes user text literal inside a LIKE pattern with ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func notFound(err error) bool { return errors.Is(err, sql.ErrNoRows) }
