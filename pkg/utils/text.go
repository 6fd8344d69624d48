package utils

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// SafeText 去除服务端字符串中的终端转义序列和控制字符，保留换行与制表符
func SafeText(s string) string {
	stripped := ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r == '\r':
			return -1
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, stripped)
}

// SafeLine 与 SafeText 相同，但把换行和制表符折叠为空格，保证结果只占一行
func SafeLine(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		return r
	}, SafeText(s))
}
