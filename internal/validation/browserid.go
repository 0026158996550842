package validation

import (
	"fmt"
	"regexp"
)

// BrowserIDPattern определяет допустимый формат browser id, который клиент
// выбирает сам: латинские буквы, цифры и символы . _ : -
var BrowserIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._:-]+$`)

// MaxBrowserIDLen максимальная длина browser id
const MaxBrowserIDLen = 128

// ValidateBrowserID проверяет id, заданный пользователем вручную.
// Сервер принимает любую непустую строку; здесь отсекаются пробелы
// и управляющие символы, которые потом неудобно передавать в CLI и логи.
func ValidateBrowserID(id string) error {
	if id == "" {
		return fmt.Errorf("browser id cannot be empty")
	}

	if len(id) > MaxBrowserIDLen {
		return fmt.Errorf("browser id must not exceed %d characters", MaxBrowserIDLen)
	}

	if !BrowserIDPattern.MatchString(id) {
		return fmt.Errorf("browser id can only contain letters, numbers, '.', '_', ':' and '-'")
	}

	return nil
}
