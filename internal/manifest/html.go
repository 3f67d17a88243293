package manifest

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxHintLen = 120

// htmlTitle 提取 HTML 页面的 <title>（没有则退化为首个 <h1>）。
// 解析失败返回空串：这里只是辅助诊断，不应掩盖原始错误。
func htmlTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	title = strings.Join(strings.Fields(title), " ")
	if r := []rune(title); len(r) > maxHintLen {
		title = string(r[:maxHintLen]) + "…"
	}
	return title
}
