// Package wordlist reads line-delimited word lists, one word per line, in
// whatever encoding they were saved with.
package wordlist

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sarthakjha889/go-prefix-trie/internal/logger"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ReadFile reads the word list stored at path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read returns the words in r, one per line, without line terminators.
// Blank lines are skipped. Input that is not UTF-8 is decoded first.
func Read(r io.Reader) ([]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("wordlist: read: %w", err)
	}
	text, err := decode(raw)
	if err != nil {
		return nil, err
	}
	words := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	return words, nil
}

// decode converts raw to UTF-8. A byte order mark wins; valid UTF-8 is used
// as is; anything else goes through charset detection.
func decode(raw []byte) (string, error) {
	var enc encoding.Encoding
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return string(raw[len(bomUTF8):]), nil
	case bytes.HasPrefix(raw, bomUTF16LE):
		enc = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case bytes.HasPrefix(raw, bomUTF16BE):
		enc = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	case utf8.Valid(raw):
		return string(raw), nil
	default:
		enc = detect(raw)
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("wordlist: decode: %w", err)
	}
	return string(decoded), nil
}

// detect guesses the encoding of raw. Unknown charsets fall back to UTF-8,
// which replaces invalid bytes with U+FFFD.
func detect(raw []byte) encoding.Encoding {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(raw)
	if err != nil {
		logger.Logger.Printf("charset detection failed: %v, using UTF-8", err)
		return unicode.UTF8
	}
	enc := decoderFor(result.Charset)
	if enc == nil {
		logger.Logger.Printf("unsupported charset %s, using UTF-8", result.Charset)
		return unicode.UTF8
	}
	logger.Logger.Printf("detected charset %s (confidence %d)", result.Charset, result.Confidence)
	return enc
}

// decoderFor maps a chardet charset name to an encoding, or nil.
func decoderFor(charset string) encoding.Encoding {
	name := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(charset))
	switch name {
	case "utf8":
		return unicode.UTF8
	case "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case "gbk", "gb2312", "gb18030":
		return simplifiedchinese.GB18030
	case "big5":
		return traditionalchinese.Big5
	case "shiftjis":
		return japanese.ShiftJIS
	case "eucjp":
		return japanese.EUCJP
	case "euckr":
		return korean.EUCKR
	case "iso88591":
		return charmap.ISO8859_1
	case "windows1252":
		return charmap.Windows1252
	}
	return nil
}
