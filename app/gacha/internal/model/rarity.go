package model

// Rarity 稀有度
type Rarity string

const (
	RarityR   Rarity = "r"   // 普通
	RaritySR  Rarity = "sr"  // 稀有
	RaritySSR Rarity = "ssr" // 超稀有
)

// AllRarities 按从低到高的固定顺序返回所有稀有度
// 权重随机的遍历顺序依赖此顺序
func AllRarities() []Rarity {
	return []Rarity{RarityR, RaritySR, RaritySSR}
}

// LowestRarity 最低稀有度
func LowestRarity() Rarity {
	return RarityR
}

// Rank 稀有度等级 (越大越稀有)，未知稀有度返回 -1
func (r Rarity) Rank() int {
	switch r {
	case RarityR:
		return 0
	case RaritySR:
		return 1
	case RaritySSR:
		return 2
	default:
		return -1
	}
}

// Valid 是否为已知稀有度
func (r Rarity) Valid() bool {
	return r.Rank() >= 0
}

// HighestRarity 返回序列中的最高稀有度，空序列返回最低稀有度
func HighestRarity(seq []Rarity) Rarity {
	highest := LowestRarity()
	for _, r := range seq {
		if r.Rank() > highest.Rank() {
			highest = r
		}
	}
	return highest
}
