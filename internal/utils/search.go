package utils

// SanitizeSearchText 去掉搜索文本中所有非字母数字字符（包括空白），
// 例如 "Exam Notice!! " 会被规范化为 "ExamNotice"
func SanitizeSearchText(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		}
	}
	return string(out)
}

// TotalPages 根据总记录数和每页大小计算总页数，最少为 1 页
func TotalPages(total int64, pageSize int) int {
	if total <= 0 {
		return 1
	}
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}
