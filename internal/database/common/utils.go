package common

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
)

//go:embed schema.sql
var DefaultSchema string

// validIdentifier guards table names that end up in formatted SQL.
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func IsValidIdentifier(name string) bool {
	return validIdentifier.MatchString(name)
}

// ParseSQLStatements splits a DDL script into statements. Semicolons inside
// quoted strings or identifiers do not end a statement. Line and block
// comments outside quotes are dropped.
func ParseSQLStatements(sql string) []string {
	var (
		statements []string
		current    strings.Builder
		quote      byte
	)

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for i := 0; i < len(sql); i++ {
		c := sql[i]

		if quote != 0 {
			current.WriteByte(c)
			if c == quote {
				// A doubled quote is an escaped quote.
				if i+1 < len(sql) && sql[i+1] == quote {
					current.WriteByte(sql[i+1])
					i++
					continue
				}
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'', c == '"', c == '`':
			quote = c
			current.WriteByte(c)
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
			current.WriteByte('\n')
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				i = len(sql)
			} else {
				i += end + 3
			}
			current.WriteByte(' ')
		case c == ';':
			flush()
		default:
			current.WriteByte(c)
		}
	}
	flush()

	return statements
}

// ValidateSchema catches the DDL mistakes that otherwise surface as opaque
// driver errors halfway through a schema: unbalanced parentheses and a
// trailing comma before the closing ");" of a CREATE TABLE.
func ValidateSchema(content, name string) error {
	lines := strings.Split(content, "\n")

	inCreateTable := false
	tableStartLine := 0
	parenDepth := 0

	for lineNum, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "--") {
			continue
		}

		if strings.Contains(strings.ToUpper(trimmed), "CREATE TABLE") {
			inCreateTable = true
			tableStartLine = lineNum + 1
			parenDepth = 0
		}

		parenDepth += strings.Count(line, "(") - strings.Count(line, ")")

		if inCreateTable && parenDepth == 0 && strings.Contains(trimmed, ");") {
			for i := lineNum - 1; i >= 0; i-- {
				prev := strings.TrimSpace(lines[i])
				if prev == "" {
					continue
				}
				if strings.HasSuffix(prev, ",") {
					return fmt.Errorf("%s:%d: trailing comma before end of CREATE TABLE", name, lineNum+1)
				}
				break
			}
			inCreateTable = false
		}

		if parenDepth < 0 {
			return fmt.Errorf("%s:%d: unexpected ')'", name, lineNum+1)
		}
	}

	if inCreateTable && parenDepth > 0 {
		return fmt.Errorf("%s:%d: unclosed CREATE TABLE statement", name, tableStartLine)
	}
	return nil
}
