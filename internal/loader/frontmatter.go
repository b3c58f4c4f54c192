package loader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is the frontmatter encoding of a Markdown file.
type Format int

const (
	FormatNone Format = iota
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "none"
	}
}

// ErrUnterminated is returned when the closing frontmatter delimiter is missing.
var ErrUnterminated = errors.New("unterminated frontmatter")

// SplitFrontmatter separates the leading `---` (YAML) or `+++` (TOML) block
// from the Markdown body.
func SplitFrontmatter(content []byte) (Format, []byte, string, error) {
	content = bytes.TrimPrefix(content, []byte("\ufeff"))
	reader := bufio.NewReader(bytes.NewReader(content))

	firstLine, err := reader.ReadString('\n')
	if err != nil && firstLine == "" {
		return FormatNone, nil, "", nil
	}

	var format Format
	delim := strings.TrimSpace(firstLine)
	switch delim {
	case "---":
		format = FormatYAML
	case "+++":
		format = FormatTOML
	default:
		return FormatNone, nil, strings.TrimSpace(string(content)), nil
	}

	var front bytes.Buffer
	for {
		line, err := reader.ReadString('\n')
		if strings.TrimSpace(line) == delim {
			break
		}
		front.WriteString(line)
		if err != nil {
			return format, nil, "", ErrUnterminated
		}
	}

	var body strings.Builder
	_, _ = reader.WriteTo(&body)
	return format, front.Bytes(), strings.TrimSpace(body.String()), nil
}

func decodeFrontmatter(format Format, front []byte, out any) error {
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(front, out)
	case FormatTOML:
		_, err = toml.Decode(string(front), out)
	}
	if err != nil {
		return fmt.Errorf("invalid %s frontmatter: %w", format, err)
	}
	return nil
}

// taskFrontmatter mirrors the keys Backlog.md writes. Loosely typed fields
// accept both a scalar and a list, and TOML's native date values.
type taskFrontmatter struct {
	ID          string `yaml:"id" toml:"id"`
	Title       string `yaml:"title" toml:"title"`
	Status      string `yaml:"status" toml:"status"`
	Milestone   any    `yaml:"milestone" toml:"milestone"`
	Ordinal     any    `yaml:"ordinal" toml:"ordinal"`
	CreatedDate any    `yaml:"created_date" toml:"created_date"`
	UpdatedDate any    `yaml:"updated_date" toml:"updated_date"`
	Assignee    any    `yaml:"assignee" toml:"assignee"`
	Labels      any    `yaml:"labels" toml:"labels"`
}

type milestoneFrontmatter struct {
	ID    string `yaml:"id" toml:"id"`
	Title string `yaml:"title" toml:"title"`
}

func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case int:
		return fmt.Sprint(val)
	case int64:
		return fmt.Sprint(val)
	case float64:
		return fmt.Sprint(val)
	default:
		return dateString(v)
	}
}

// dateString renders a frontmatter date in the "2006-01-02 15:04" shape the
// backend uses. TOML dates and datetimes decode to time.Time.
func dateString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format("2006-01-02 15:04")
	default:
		return fmt.Sprint(val)
	}
}

func stringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return []string{s}
		}
		return nil
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := scalarString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{fmt.Sprint(val)}
	}
}

func ordinal(v any) (*int, error) {
	var n int
	switch val := v.(type) {
	case nil:
		return nil, nil
	case int:
		n = val
	case int64:
		n = int(val)
	case float64:
		if val != math.Trunc(val) {
			return nil, fmt.Errorf("ordinal %v is not an integer", val)
		}
		n = int(val)
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("ordinal %q is not an integer", val)
		}
		n = parsed
	default:
		return nil, fmt.Errorf("ordinal has unsupported type %T", v)
	}
	return &n, nil
}
