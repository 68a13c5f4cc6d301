package entity

import "regexp"

// SlugPattern задает допустимый формат URL: строчные латинские буквы и дефисы
var SlugPattern = regexp.MustCompile(`^[a-z-]+$`)

// Localized хранит строку на трех языках
// Ru обязателен, tm/en при отсутствии заполняются русским значением
type Localized struct {
	Ru string `json:"ru" bson:"ru"`
	Tm string `json:"tm" bson:"tm"`
	En string `json:"en" bson:"en"`
}

// NewLocalized создает локализованную строку с fallback на русский
func NewLocalized(ru, tm, en string) Localized {
	if tm == "" {
		tm = ru
	}
	if en == "" {
		en = ru
	}
	return Localized{Ru: ru, Tm: tm, En: en}
}
