// Утилитарные функции общего назначения
package utils

func Ptr[T any](v T) *T {
	return &v
}

// FirstNonEmpty возвращает первую непустую строку или "".
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
