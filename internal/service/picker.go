package service

import (
	"math"
	"math/rand"

	"gacha-collector-bot/internal/domain"
)

// rarityWeight halves the draw weight per rarity step: rarity 1 characters
// weigh 1, rarity 5 weigh 1/16.
func rarityWeight(rarity int) float64 {
	return math.Pow(0.5, float64(rarity-1))
}

// pickCharacter draws one character from the catalog, weighted by rarity.
// Falls back to a uniform pick if floating-point accumulation never crosses
// the drawn value; that shouldn't happen, but guards against it.
func pickCharacter(characters []domain.Character, rng *rand.Rand) domain.Character {
	totalWeight := 0.0
	for _, c := range characters {
		totalWeight += rarityWeight(c.Rarity)
	}

	draw := rng.Float64() * totalWeight

	weightSum := 0.0
	for _, c := range characters {
		weightSum += rarityWeight(c.Rarity)
		if draw <= weightSum {
			return c
		}
	}

	return characters[rng.Intn(len(characters))]
}
