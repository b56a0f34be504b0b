package helper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// Slugify turns free text into [a-z0-9-], stripping diacritics (é → e).
// maxLen <= 0 means 100. Empty results become "item".
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 100
	}
	s = strings.ToLower(strings.TrimSpace(s))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = reNonAlnum.ReplaceAllString(string(buf), "-")
	s = strings.Trim(reHyphen.ReplaceAllString(s, "-"), "-")

	if utf8.RuneCountInString(s) > maxLen {
		s = strings.Trim(string([]rune(s)[:maxLen]), "-")
	}
	if s == "" {
		s = "item"
	}
	return s
}

// EnsureUniqueSlugCI returns baseSlug, or baseSlug-2, -3 ... if taken
// (case-insensitive) within the rows selected by scopeFn.
func EnsureUniqueSlugCI(
	ctx context.Context,
	db *gorm.DB,
	table, column, baseSlug string,
	scopeFn func(*gorm.DB) *gorm.DB,
	maxLen int,
) (string, error) {
	if maxLen <= 0 {
		maxLen = 100
	}
	slug := baseSlug
	for i := 0; i < 25; i++ {
		q := db.WithContext(ctx).Table(table)
		if scopeFn != nil {
			q = scopeFn(q)
		}
		var count int64
		if err := q.Where(fmt.Sprintf("LOWER(%s) = ?", column), strings.ToLower(slug)).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		suffix := fmt.Sprintf("-%d", i+2)
		slug = trimForSuffix(baseSlug, suffix, maxLen) + suffix
	}

	r := fmt.Sprintf("-%x", time.Now().UnixNano()&0xffff)
	return trimForSuffix(baseSlug, r, maxLen) + r, nil
}

func trimForSuffix(base, suffix string, maxLen int) string {
	keep := maxLen - len(suffix)
	if keep < 1 {
		return "x"
	}
	rs := []rune(base)
	if len(rs) > keep {
		rs = rs[:keep]
	}
	out := strings.Trim(string(rs), "-")
	if out == "" {
		out = "x"
	}
	return out
}
