// Package sanitize превращает произвольный пользовательский текст в безопасный сегмент пути.
package sanitize

import (
	"regexp"
	"runtime"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FallbackDirName используется, когда от заголовка после очистки ничего не осталось
const FallbackDirName = "untitled"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// зарезервированные имена устройств Windows; на других ОС это обычные имена
var windowsDeviceNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// SecureFilename возвращает ASCII-имя, пригодное для файловой системы:
// диакритика снимается (NFKD), разделители пути и пробелы превращаются в "_",
// все символы вне [A-Za-z0-9_.-] удаляются, точки и подчёркивания по краям обрезаются.
// На Windows к именам устройств (CON, NUL, ...) добавляется префикс "_".
// Результат может быть пустой строкой.
func SecureFilename(name string) string {
	return secureFilename(name, runtime.GOOS == "windows")
}

func secureFilename(name string, windows bool) string {
	ascii, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
			return r > unicode.MaxASCII
		}))),
		name,
	)
	if err != nil {
		ascii = ""
	}

	ascii = strings.NewReplacer("/", " ", `\`, " ").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")
	ascii = unsafeChars.ReplaceAllString(ascii, "")
	ascii = strings.Trim(ascii, "._")

	if windows && ascii != "" {
		base, _, _ := strings.Cut(ascii, ".")
		if _, ok := windowsDeviceNames[strings.ToUpper(base)]; ok {
			ascii = "_" + ascii
		}
	}

	return ascii
}

// DirName возвращает имя каталога поста, полученное из заголовка
func DirName(title string) string {
	if name := SecureFilename(title); name != "" {
		return name
	}

	return FallbackDirName
}
