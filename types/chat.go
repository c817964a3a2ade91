package types

type Author string

const (
	User Author = "User"
	Bot  Author = "Bot"
)

type ChatMessage struct {
	Author Author `json:"author"`
	Text   string `json:"text"`
	Seq    uint64 `json:"seq"`
}

type ChatView struct {
	Messages []string `json:"messages"`
}
