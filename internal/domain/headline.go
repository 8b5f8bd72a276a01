package domain

type Headline struct {
	Text string `json:"headline"`
}
