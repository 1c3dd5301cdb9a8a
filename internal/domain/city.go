package domain

type Province struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type City struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	ProvinceID int64     `json:"province_id"`
	Province   *Province `json:"province,omitempty"`
}
