package model

// Character 图鉴角色 (只读参考数据)
type Character struct {
	Value   string `json:"value"`   // 唯一标识
	Label   string `json:"label"`   // 展示名称
	Series  string `json:"series"`  // 所属系列
	Rarity  Rarity `json:"rarity"`  // 稀有度
	Image   string `json:"image"`   // 图片地址
	Edition string `json:"edition"` // 版本
}

// Banner 当前卡池 (featured 角色集合)
type Banner struct {
	CurrentCharacters []string `json:"current_characters"`
}
