package model

import "time"

// CollectionEntry 玩家图鉴收集记录，按 (user_id, character_value) 唯一
type CollectionEntry struct {
	UserID         string    `json:"user_id"`
	CharacterValue string    `json:"character_value"`
	Level          int32     `json:"level"`  // 等级，>= 1
	XPNow          int32     `json:"xp_now"` // 当前经验，升级结算后恒小于 XPMax
	XPMax          int32     `json:"xp_max"` // 升级所需经验
	UpdatedAt      time.Time `json:"updated_at"`
}
