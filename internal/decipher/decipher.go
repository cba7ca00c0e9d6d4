// Package decipher evaluates player-JS signature and n-parameter
// transforms. It is an injected capability: the catalog builder calls
// into it for cipher-protected stream URLs, and nothing here attempts
// to fetch or derive the player script itself.
package decipher

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/dop251/goja"
)

// Decipherer resolves cipher-protected stream URLs against one player
// JS body.
type Decipherer struct {
	jsBody []byte
}

func New(jsBody string) *Decipherer {
	return &Decipherer{jsBody: []byte(jsBody)}
}

// StreamURL resolves a signatureCipher query blob into a fetchable
// address: deciphers the 's' parameter into the signature query field
// and rewrites the 'n' throttling parameter when present.
func (d *Decipherer) StreamURL(signatureCipher string) (string, error) {
	params, err := url.ParseQuery(signatureCipher)
	if err != nil {
		return "", err
	}
	rawURL := params.Get("url")
	if rawURL == "" {
		return "", errors.New("cipher missing url field")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	if s := params.Get("s"); s != "" {
		decoded, err := d.Signature(s)
		if err != nil {
			return "", err
		}
		sp := params.Get("sp")
		if sp == "" {
			sp = "signature"
		}
		q := u.Query()
		q.Set(sp, decoded)
		u.RawQuery = q.Encode()
	}

	q := u.Query()
	if n := q.Get("n"); n != "" {
		// The n transform defeats throttling, not access; keep the
		// original value when decoding fails.
		if decoded, err := d.NParam(n); err == nil {
			q.Set("n", decoded)
			u.RawQuery = q.Encode()
		}
	}

	return u.String(), nil
}

// Signature applies the player's scramble operations to the 's'
// parameter.
func (d *Decipherer) Signature(s string) (string, error) {
	ops, err := d.parseOps()
	if err != nil {
		return "", err
	}
	bs := []byte(s)
	for _, op := range ops {
		bs = op(bs)
	}
	return string(bs), nil
}

// NParam evaluates the player's n-parameter function in a JS runtime.
func (d *Decipherer) NParam(n string) (string, error) {
	fn, err := d.nFunction()
	if err != nil {
		return "", err
	}
	return evalUnaryStringFunc(fn, n)
}

type operation func([]byte) []byte

func reverseOp(bs []byte) []byte {
	for i, j := 0, len(bs)-1; i < j; i, j = i+1, j-1 {
		bs[i], bs[j] = bs[j], bs[i]
	}
	return bs
}

func spliceOp(pos int) operation {
	return func(bs []byte) []byte { return bs[pos:] }
}

func swapOp(pos int) operation {
	return func(bs []byte) []byte {
		if len(bs) == 0 {
			return bs
		}
		pos %= len(bs)
		bs[0], bs[pos] = bs[pos], bs[0]
		return bs
	}
}

const (
	jsVar      = `[a-zA-Z_\$][a-zA-Z_0-9]*`
	reverseDef = `:function\(a\)\{(?:return )?a\.reverse\(\)\}`
	spliceDef  = `:function\(a,b\)\{a\.splice\(0,b\)\}`
	swapDef    = `:function\(a,b\)\{var c=a\[0\];a\[0\]=a\[b(?:%a\.length)?\];a\[b(?:%a\.length)?\]=c(?:;return a)?\}`
)

var (
	actionsObjRe = regexp.MustCompile(fmt.Sprintf(
		`(?:var|let|const)\s+(%s)=\{((?:(?:%s%s|%s%s|%s%s),?\n?)+)\}\s*;?`,
		jsVar, jsVar, swapDef, jsVar, spliceDef, jsVar, reverseDef))
	reverseKeyRe = regexp.MustCompile(fmt.Sprintf(`(?m)(?:^|,)(%s)%s`, jsVar, reverseDef))
	spliceKeyRe  = regexp.MustCompile(fmt.Sprintf(`(?m)(?:^|,)(%s)%s`, jsVar, spliceDef))
	swapKeyRe    = regexp.MustCompile(fmt.Sprintf(`(?m)(?:^|,)(%s)%s`, jsVar, swapDef))
	actionsBodyRe = regexp.MustCompile(fmt.Sprintf(
		`function(?:\s+%s)?\(a\)\{`+
			`a=a\.split\([^\)]*\);\s*`+
			`((?:(?:a=)?%s(?:\.%s|\[[^\]]+\])\(a,\d+\);?\s*)+)`+
			`return a\.join\([^\)]*\)`+
			`\}`, jsVar, jsVar, jsVar))

	nFunctionNameRes = []*regexp.Regexp{
		regexp.MustCompile(`\.get\("n"\)\)&&\(b=([a-zA-Z0-9$]{0,3})\[(\d+)\](.+)\|\|([a-zA-Z0-9]{0,3})`),
		regexp.MustCompile(`\.get\("n"\)\)\s*&&\s*\(b=([a-zA-Z0-9$]{1,})\[(\d+)\]\([a-zA-Z0-9$]{1,}\).+\|\|([a-zA-Z0-9$]{1,})`),
		regexp.MustCompile(`\.get\("n"\)\)\s*&&\s*\(b=([a-zA-Z0-9$]{1,})\([a-zA-Z0-9$]{1,}\)`),
	}
)

func (d *Decipherer) parseOps() ([]operation, error) {
	objMatch := actionsObjRe.FindSubmatch(d.jsBody)
	bodyMatch := actionsBodyRe.FindSubmatch(d.jsBody)
	if len(objMatch) < 3 || len(bodyMatch) < 2 {
		return nil, errors.New("unable to parse signature operations")
	}

	objName := objMatch[1]
	objBody := objMatch[2]

	keyOf := func(re *regexp.Regexp) string {
		if m := re.FindSubmatch(objBody); len(m) > 1 {
			return string(m[1])
		}
		return ""
	}
	reverseKey := keyOf(reverseKeyRe)
	spliceKey := keyOf(spliceKeyRe)
	swapKey := keyOf(swapKeyRe)

	callRe, err := regexp.Compile(fmt.Sprintf(
		`(?:a=)?%s(?:\.(%s)|\[(?:"(%s)"|'(%s)')\])\(a,(\d+)\)`,
		regexp.QuoteMeta(string(objName)),
		keyAlternatives(reverseKey, spliceKey, swapKey),
		keyAlternatives(reverseKey, spliceKey, swapKey),
		keyAlternatives(reverseKey, spliceKey, swapKey),
	))
	if err != nil {
		return nil, err
	}

	var ops []operation
	for _, m := range callRe.FindAllSubmatch(bodyMatch[1], -1) {
		if len(m) < 5 {
			continue
		}
		key := firstNonEmpty(m[1], m[2], m[3])
		arg, _ := strconv.Atoi(string(m[4]))
		switch key {
		case reverseKey:
			ops = append(ops, reverseOp)
		case spliceKey:
			ops = append(ops, spliceOp(arg))
		case swapKey:
			ops = append(ops, swapOp(arg))
		}
	}
	if len(ops) == 0 {
		return nil, errors.New("empty signature operation list")
	}
	return ops, nil
}

func keyAlternatives(keys ...string) string {
	quoted := make([]string, 0, len(keys))
	for _, k := range keys {
		quoted = append(quoted, regexp.QuoteMeta(k))
	}
	return strings.Join(quoted, "|")
}

func firstNonEmpty(groups ...[]byte) string {
	for _, g := range groups {
		if len(g) > 0 {
			return string(g)
		}
	}
	return ""
}

func (d *Decipherer) nFunction() (string, error) {
	for _, re := range nFunctionNameRes {
		m := re.FindSubmatch(d.jsBody)
		if len(m) == 0 {
			continue
		}
		switch len(m) {
		case 5:
			if idx, err := strconv.Atoi(string(m[2])); err == nil && idx == 0 {
				return d.extractFunction(string(m[4]))
			}
			return d.extractFunction(string(m[1]))
		case 4:
			if idx, err := strconv.Atoi(string(m[2])); err == nil && idx == 0 {
				return d.extractFunction(string(m[3]))
			}
			return d.extractFunction(string(m[1]))
		default:
			return d.extractFunction(string(m[1]))
		}
	}
	return "", errors.New("unable to locate n-parameter function")
}

// extractFunction slices a named function definition out of the player
// body, tracking brace depth and string literals.
func (d *Decipherer) extractFunction(name string) (string, error) {
	name = strings.TrimSpace(name)
	defs := [][]byte{
		[]byte(name + "=function("),
		[]byte(name + " = function("),
		[]byte("function " + name + "("),
	}
	start := -1
	for _, def := range defs {
		if start = bytes.Index(d.jsBody, def); start >= 0 {
			break
		}
	}
	if start < 0 {
		return "", fmt.Errorf("function %s not found", name)
	}

	pos := start + bytes.IndexByte(d.jsBody[start:], '{') + 1
	var strChar byte
	for brackets := 1; brackets > 0; pos++ {
		if pos >= len(d.jsBody) {
			return "", errors.New("unterminated function body")
		}
		b := d.jsBody[pos]
		switch b {
		case '{':
			if strChar == 0 {
				brackets++
			}
		case '}':
			if strChar == 0 {
				brackets--
			}
		case '`', '"', '\'':
			if pos > 1 && d.jsBody[pos-1] == '\\' && d.jsBody[pos-2] != '\\' {
				continue
			}
			if strChar == 0 {
				strChar = b
			} else if strChar == b {
				strChar = 0
			}
		}
	}
	return string(d.jsBody[start:pos]), nil
}

func evalUnaryStringFunc(jsFunction, arg string) (string, error) {
	const fnName = "ytgrabTransform"
	vm := goja.New()
	if _, err := vm.RunString(fnName + "=" + jsFunction); err != nil {
		return "", err
	}
	var fn func(string) string
	if err := vm.ExportTo(vm.Get(fnName), &fn); err != nil {
		return "", err
	}
	return fn(arg), nil
}
