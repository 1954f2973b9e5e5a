package links

import "strings"

// anchor is an href found on an <a> tag. offset is the byte position of the
// tag's '<' and orders anchors within the document.
type anchor struct {
	href   string
	offset int
}

// scanAnchors walks doc left to right and returns the href of every anchor
// tag in document order. Tags without an href contribute nothing. Comments
// and the attributes of other tags are skipped, so markup quoted inside an
// attribute value is never mistaken for a tag. A tag or comment that is
// never closed swallows the rest of the document.
func scanAnchors(doc string) []anchor {
	var anchors []anchor

	for pos := 0; pos < len(doc); {
		lt := strings.IndexByte(doc[pos:], '<')
		if lt < 0 {
			break
		}
		start := pos + lt
		rest := doc[start:]

		if strings.HasPrefix(rest, "<!--") {
			n := commentLen(rest)
			if n < 0 {
				break
			}
			pos = start + n
			continue
		}

		n := tagNameLen(rest)
		if n < 0 {
			pos = start + 1
			continue
		}

		href, found, end := scanTag(doc, start+n)
		if end < 0 {
			break
		}
		if found && isAnchorOpen(rest) {
			anchors = append(anchors, anchor{href: href, offset: start})
		}
		pos = end + 1
	}

	return anchors
}

// commentLen returns the length of the comment at the start of s, including
// its delimiters, or -1 if the comment is never closed. "<!-->" and "<!--->"
// are complete empty comments.
func commentLen(s string) int {
	body := s[len("<!--"):]
	switch {
	case strings.HasPrefix(body, ">"):
		return len("<!-->")
	case strings.HasPrefix(body, "->"):
		return len("<!--->")
	}
	end := strings.Index(body, "-->")
	if end < 0 {
		return -1
	}
	return len("<!--") + end + len("-->")
}

// tagNameLen returns the length of the "<name" or "</name" prefix of s, or -1
// if s does not start a tag. Names must begin with an ASCII letter.
func tagNameLen(s string) int {
	i := 1
	if i < len(s) && s[i] == '/' {
		i++
	}
	if i >= len(s) || !isLetter(s[i]) {
		return -1
	}
	for i < len(s) && !isSpace(s[i]) && s[i] != '/' && s[i] != '>' {
		i++
	}
	return i
}

// isAnchorOpen reports whether s starts with an <a> start tag, so that
// <abbr>, <area>, <link> and </a> are rejected.
func isAnchorOpen(s string) bool {
	if len(s) < 3 || s[0] != '<' || (s[1] != 'a' && s[1] != 'A') {
		return false
	}
	return isSpace(s[2]) || s[2] == '>' || s[2] == '/'
}

// scanTag reads attributes from doc[pos:] up to the closing '>' and returns
// the value of the first href attribute. end is the index of the closing
// '>', or -1 when the tag or one of its quoted values is unterminated.
func scanTag(doc string, pos int) (href string, found bool, end int) {
	i := pos
	for {
		for i < len(doc) && (isSpace(doc[i]) || doc[i] == '/') {
			i++
		}
		if i >= len(doc) {
			return "", false, -1
		}
		if doc[i] == '>' {
			return href, found, i
		}

		nameStart := i
		for i < len(doc) && (i == nameStart || !isNameEnd(doc[i])) {
			i++
		}
		name := doc[nameStart:i]

		j := i
		for j < len(doc) && isSpace(doc[j]) {
			j++
		}
		if j >= len(doc) {
			return "", false, -1
		}
		if doc[j] != '=' {
			// Valueless attribute.
			if !found && strings.EqualFold(name, "href") {
				href, found = "", true
			}
			i = j
			continue
		}

		j++
		for j < len(doc) && isSpace(doc[j]) {
			j++
		}
		if j >= len(doc) {
			return "", false, -1
		}

		var value string
		switch quote := doc[j]; quote {
		case '"', '\'':
			closing := strings.IndexByte(doc[j+1:], quote)
			if closing < 0 {
				return "", false, -1
			}
			value = doc[j+1 : j+1+closing]
			i = j + 1 + closing + 1
		case '>':
			i = j
		default:
			valueStart := j
			for j < len(doc) && !isSpace(doc[j]) && doc[j] != '>' {
				j++
			}
			value = doc[valueStart:j]
			i = j
		}

		if !found && strings.EqualFold(name, "href") {
			href, found = value, true
		}
	}
}

func isNameEnd(c byte) bool {
	return isSpace(c) || c == '=' || c == '>' || c == '/'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
