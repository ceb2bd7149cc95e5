package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseDifficulty(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{in: "easy", want: DifficultyEasy},
		{in: "medium", want: DifficultyMedium},
		{in: "hard", want: DifficultyHard},
		{in: "", wantErr: true},
		{in: "EASY", wantErr: true},
		{in: "impossible", wantErr: true},
	} {
		got, err := ParseDifficulty(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
		} else {
			require.NoError(t, err, "input %q", tc.in)
			assert.Equal(t, tc.want, got)
		}
	}
}

func TestCatalogValidate(t *testing.T) {
	require.NoError(t, newCountryCatalog().validate())

	short := &CountryCatalog{
		tiers: map[Difficulty][]Country{
			DifficultyEasy:   {{Code: "FI", Name: "Suomi"}, {Code: "SE", Name: "Ruotsi"}},
			DifficultyMedium: mediumCountries,
			DifficultyHard:   hardCountries,
		},
	}
	assert.ErrorIs(t, short.validate(), ErrInsufficientCatalog)
}

func TestPickCountryTierMembership(t *testing.T) {
	cc := newCountryCatalog()

	for _, d := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		for i := 0; i < 20; i++ {
			country, err := cc.PickCountry(d)
			require.NoError(t, err)
			assert.Contains(t, cc.tiers[d], country)
		}
	}
}

func TestPickCountryUnknownDifficulty(t *testing.T) {
	cc := newCountryCatalog()

	_, err := cc.PickCountry(Difficulty("impossible"))
	assert.Error(t, err)
}

func TestWrongAnswersProperties(t *testing.T) {
	cc := newCountryCatalog()
	difficulties := []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

	rapid.Check(t, func(t *rapid.T) {
		d := difficulties[rapid.IntRange(0, len(difficulties)-1).Draw(t, "tier")]
		tier := cc.tiers[d]
		exclude := tier[rapid.IntRange(0, len(tier)-1).Draw(t, "exclude")].Code

		wrong, err := cc.WrongAnswers(d, exclude)
		if err != nil {
			t.Fatalf("WrongAnswers(%s, %s): %v", d, exclude, err)
		}
		if len(wrong) != wrongAnswerCount {
			t.Fatalf("got %d wrong answers, want %d", len(wrong), wrongAnswerCount)
		}

		seen := make(map[string]bool)
		for _, c := range wrong {
			if c.Code == exclude {
				t.Fatalf("wrong answers contain the excluded code %s", exclude)
			}
			if seen[c.Code] {
				t.Fatalf("duplicate wrong answer %s", c.Code)
			}
			seen[c.Code] = true

			found := false
			for _, tc := range tier {
				if tc.Code == c.Code {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("wrong answer %s is not in the %s tier", c.Code, d)
			}
		}
	})
}

func TestWrongAnswersInsufficientCatalog(t *testing.T) {
	tiny := &CountryCatalog{
		tiers: map[Difficulty][]Country{
			DifficultyEasy: {
				{Code: "FI", Name: "Suomi"},
				{Code: "SE", Name: "Ruotsi"},
				{Code: "NO", Name: "Norja"},
			},
		},
	}

	// Excluding one of three leaves only two eligible entries.
	_, err := tiny.WrongAnswers(DifficultyEasy, "FI")
	assert.ErrorIs(t, err, ErrInsufficientCatalog)
}

func TestWrongAnswersUnknownDifficulty(t *testing.T) {
	cc := newCountryCatalog()

	_, err := cc.WrongAnswers(Difficulty("impossible"), "FI")
	assert.Error(t, err)
}
