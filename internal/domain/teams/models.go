package teams

// Team is a tournament side. Ids are assigned at setup and never change.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
