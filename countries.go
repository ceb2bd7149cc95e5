package main

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// Difficulty selects one of the three country tiers.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty rejects anything outside the three known tiers.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
}

// Country is a single quiz answer: a flag code and its display name.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var ErrInsufficientCatalog = errors.New("not enough countries in catalog")

// wrongAnswerCount is how many distractors accompany each flag.
const wrongAnswerCount = 3

// CountryCatalog is the static, difficulty-partitioned flag pool the quiz
// draws from. The tiers never overlap.
type CountryCatalog struct {
	tiers map[Difficulty][]Country
}

func newCountryCatalog() *CountryCatalog {
	return &CountryCatalog{
		tiers: map[Difficulty][]Country{
			DifficultyEasy:   easyCountries,
			DifficultyMedium: mediumCountries,
			DifficultyHard:   hardCountries,
		},
	}
}

// validate makes sure every tier can always produce one flag plus
// wrongAnswerCount distinct distractors. Run once at startup; a failure
// here is a configuration error, not a runtime condition.
func (cc *CountryCatalog) validate() error {
	for _, d := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		if len(cc.tiers[d]) < wrongAnswerCount+1 {
			return fmt.Errorf("%w: %s tier holds %d entries, need at least %d",
				ErrInsufficientCatalog, d, len(cc.tiers[d]), wrongAnswerCount+1)
		}
	}
	return nil
}

// randIndex returns a uniform index into [0, n) using crypto/rand.
func randIndex(n int) int {
	if n <= 1 {
		return 0
	}

	max := byte(255 - (256 % n))
	buf := make([]byte, 8)

	for {
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		for _, b := range buf {
			if b <= max {
				return int(b) % n
			}
		}
	}
}

// PickCountry draws a random flag from the given tier.
func (cc *CountryCatalog) PickCountry(difficulty Difficulty) (Country, error) {
	tier, ok := cc.tiers[difficulty]
	if !ok || len(tier) == 0 {
		return Country{}, fmt.Errorf("unknown difficulty %q", difficulty)
	}
	return tier[randIndex(len(tier))], nil
}

// WrongAnswers draws wrongAnswerCount distinct flags from the tier, never
// including excludeCode. Fails rather than returning a short list.
func (cc *CountryCatalog) WrongAnswers(difficulty Difficulty, excludeCode string) ([]Country, error) {
	tier, ok := cc.tiers[difficulty]
	if !ok {
		return nil, fmt.Errorf("unknown difficulty %q", difficulty)
	}

	pool := make([]Country, 0, len(tier))
	for _, c := range tier {
		if c.Code != excludeCode {
			pool = append(pool, c)
		}
	}

	if len(pool) < wrongAnswerCount {
		return nil, fmt.Errorf("%w: %d eligible %s countries, need %d",
			ErrInsufficientCatalog, len(pool), difficulty, wrongAnswerCount)
	}

	// Fisher-Yates over the filtered pool, then take the head.
	for i := len(pool) - 1; i > 0; i-- {
		j := randIndex(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}

	return pool[:wrongAnswerCount:wrongAnswerCount], nil
}

var easyCountries = []Country{
	{Code: "FI", Name: "Suomi"},
	{Code: "SE", Name: "Ruotsi"},
	{Code: "NO", Name: "Norja"},
	{Code: "DK", Name: "Tanska"},
	{Code: "IS", Name: "Islanti"},
	{Code: "EE", Name: "Viro"},
	{Code: "LV", Name: "Latvia"},
	{Code: "LT", Name: "Liettua"},
	{Code: "PL", Name: "Puola"},
	{Code: "DE", Name: "Saksa"},
	{Code: "CZ", Name: "Tsekki"},
	{Code: "SK", Name: "Slovakia"},
	{Code: "HU", Name: "Unkari"},
	{Code: "AT", Name: "Itävalta"},
	{Code: "CH", Name: "Sveitsi"},
	{Code: "LI", Name: "Lichtenstain"},
	{Code: "NL", Name: "Hollanti"},
	{Code: "BE", Name: "Belgia"},
	{Code: "LU", Name: "Luxembourg"},
	{Code: "FR", Name: "Ranska"},
	{Code: "ES", Name: "Espanja"},
	{Code: "PT", Name: "Portugali"},
	{Code: "IT", Name: "Italia"},
	{Code: "SI", Name: "Slovenia"},
	{Code: "RU", Name: "Venäjä"},
	{Code: "GR", Name: "Kreikka"},
	{Code: "TR", Name: "Turkki"},
	{Code: "CY", Name: "Kypros"},
	{Code: "BG", Name: "Bulgaria"},
	{Code: "RO", Name: "Romania"},
	{Code: "MD", Name: "Moldova"},
}

var mediumCountries = []Country{
	{Code: "ZA", Name: "Etelä-Afrikka"},
	{Code: "KR", Name: "Etelä-Korea"},
	{Code: "MX", Name: "Meksiko"},
	{Code: "AR", Name: "Argentiina"},
	{Code: "AU", Name: "Australia"},
	{Code: "BA", Name: "Bosnia ja Herzegovina"},
	{Code: "HR", Name: "Kroatia"},
	{Code: "ME", Name: "Montenegro"},
	{Code: "AL", Name: "Albania"},
	{Code: "MK", Name: "Pohjois makedonia"},
}

var hardCountries = []Country{
	{Code: "AG", Name: "Antigua ja Barbuda"},
	{Code: "BT", Name: "Bhutan"},
	{Code: "KH", Name: "Kambodža"},
	{Code: "KM", Name: "Komorit"},
	{Code: "ER", Name: "Eritrea"},
	{Code: "FJ", Name: "Fidži"},
	{Code: "LS", Name: "Lesotho"},
	{Code: "MR", Name: "Mauritania"},
	{Code: "WS", Name: "Samoa"},
	{Code: "TL", Name: "Itä-Timor"},
}
