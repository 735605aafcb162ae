/*
   Velociraptor - Dig Deeper
   Copyright (C) 2019-2025 Rapid7 Inc.

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU Affero General Public License as published
   by the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU Affero General Public License for more details.

   You should have received a copy of the GNU Affero General Public License
   along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package glob

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-errors/errors"
	"www.velocidex.com/golang/changelog/utils"
)

// The translation in this file is based on the Rekall algorithm here:
// https://github.com/google/rekall/blob/master/rekall-core/rekall/plugins/response/files.py#L255
// restricted to patterns that match names within a single directory.

type _NameFilterer interface {
	Match(name string) bool
	String() string
}

type _RegexComponent struct {
	regexp string
	re     *regexp.Regexp
}

func NewRegexComponent(pattern string) (*_RegexComponent, error) {
	re, err := regexp.Compile("^(?msi)" + pattern)
	if err != nil {
		return nil, err
	}
	return &_RegexComponent{regexp: pattern, re: re}, nil
}

func (self _RegexComponent) Match(name string) bool {
	return self.re.MatchString(name)
}

func (self _RegexComponent) String() string {
	return "re:" + self.regexp
}

type _LiteralComponent struct {
	path string
}

func (self _LiteralComponent) String() string {
	return self.path
}

func (self _LiteralComponent) Match(name string) bool {
	return strings.EqualFold(self.path, name)
}

// Matches file names against a shell style pattern. Matching is case
// insensitive. Brace expansion {a,b} is applied before wildcards so
// cs_server_{changes,events}*.log is supported.
type NameMatcher struct {
	pattern    string
	components []_NameFilterer
}

func NewNameMatcher(pattern string) (*NameMatcher, error) {
	if pattern == "" {
		return nil, errors.New("glob: empty pattern")
	}

	if strings.ContainsAny(pattern, `/\`) {
		return nil, fmt.Errorf(
			"glob: pattern %v must match file names, not paths", pattern)
	}

	result := &NameMatcher{pattern: pattern}

	var brace_expanded []string
	_brace_expansion(pattern, &brace_expanded)

	for _, expanded := range brace_expanded {
		component, err := convert_glob_into_component(expanded)
		if err != nil {
			return nil, err
		}
		result.components = append(result.components, component)
	}

	return result, nil
}

func (self *NameMatcher) Match(name string) bool {
	for _, c := range self.components {
		if c.Match(name) {
			return true
		}
	}
	return false
}

func (self *NameMatcher) String() string {
	return self.pattern
}

func (self *NameMatcher) DebugString() string {
	result := []string{}
	for _, c := range self.components {
		result = append(result, c.String())
	}
	return strings.Join(result, ", ")
}

func _brace_expansion(pattern string, result *[]string) {
	groups := _GROUPING_PATTERN.FindStringSubmatch(pattern)
	if len(groups) > 0 {
		left := groups[1]
		middle := strings.Split(groups[2], ",")
		right := groups[3]

		for _, item := range middle {
			_brace_expansion(left+item+right, result)
		}
	} else if !utils.InString(*result, pattern) {
		*result = append(*result, pattern)
	}
}

var (
	// Support Brace Expansion {a,b}. NOTE: This happens before wild card
	// expansions so you can do {*.log,*.log.gz}
	_GROUPING_PATTERN = regexp.MustCompile("^(.*){([^}]+)}(.*)$")

	// A regex indicating if there are shell globs in this path.
	_GLOB_MAGIC_CHECK = regexp.MustCompile("[*?[]")
)

// Converts a single name pattern into either a literal or a regex
// component.
func convert_glob_into_component(pattern string) (_NameFilterer, error) {
	if m := _GLOB_MAGIC_CHECK.FindString(pattern); len(m) == 0 {
		return _LiteralComponent{path: pattern}, nil
	}

	translated, err := fnmatch_translate(pattern)
	if err != nil {
		return nil, err
	}

	return NewRegexComponent(translated)
}

type unicode []rune

// Copied from Python's fnmatch.translate
/*
   Translate a shell PATTERN to a regular expression.

   There is no way to quote meta-characters. Unlike Python an
   unterminated [ is an error since it is almost always a typo in a
   config file.
*/
func fnmatch_translate(pat string) (string, error) {
	unicode_pat := unicode(pat)
	n := len(unicode_pat)
	res := unicode("")

	for i := 0; i < n; {
		c := unicode_pat[i]
		i = i + 1
		if c == '*' {
			res = append(res, unicode(".*")...)
		} else if c == '?' {
			res = append(res, unicode(".")...)
		} else if c == '[' {
			j := i
			if j < n && unicode_pat[j] == '!' {
				j = j + 1
			}
			if j < n && unicode_pat[j] == ']' {
				j = j + 1
			}
			for j < n {
				if unicode_pat[j] == ']' {
					break
				}

				j = j + 1
			}
			if j >= n {
				return "", fmt.Errorf("glob: unterminated [ in %v", pat)
			}

			stuff := escape_backslash(unicode_pat[i:j])

			i = j + 1
			if stuff[0] == '!' {
				stuff = append(unicode("^"), stuff[1:]...)
			} else if stuff[0] == '^' {
				stuff = append(unicode("\\"), stuff...)
			}

			res = append(res, '[')
			res = append(res, stuff...)
			res = append(res, ']')
		} else {
			res = append(res, escape_rune(c)...)
		}
	}

	res = append(res, unicode("\\z")...)
	return string(res), nil
}

// Same as python's re.escape()
func escape_rune(x rune) unicode {
	var result unicode

	i := int(x)

	// RE2 rejects escaped non ASCII runes.
	if i < 128 && !(int('a') <= i && i <= int('z') ||
		int('A') <= i && i <= int('Z') ||
		int('0') <= i && i <= int('9')) {
		result = append(result, '\\')
	}

	return append(result, x)
}

func escape_backslash(pattern unicode) unicode {
	var result unicode

	for _, x := range pattern {
		if x == '\\' {
			result = append(result, '\\')
		}
		result = append(result, x)
	}

	return result
}
