package domain

// CampaignPack is the structured bundle of narrative content produced per
// generation request. It is rebuilt for every request and never persisted
// directly; only its renderings are. Every field is optional: the decode
// boundary defaults absent keys to zero values, and renderers must tolerate
// missing or empty collections.
type CampaignPack struct {
	Title            string       `json:"title"`
	Premise          string       `json:"premise"`
	Tone             string       `json:"tone"`
	StartingLocation string       `json:"starting_location"`
	Locations        []Location   `json:"locations"`
	NPCs             []NPC        `json:"npcs"`
	Scenes           []Scene      `json:"scenes"`
	DecisionFlow     DecisionFlow `json:"decision_flow"`
	Handouts         []Handout    `json:"handouts"`
}

// Location is one place in the campaign with an optional map size hint.
type Location struct {
	Name       string   `json:"name"`
	Summary    string   `json:"summary"`
	Encounters []string `json:"encounters"`
	Map        MapHint  `json:"map"`
}

// MapHint declares the requested grid dimensions for a location map.
type MapHint struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NPC describes a non-player character. Secret is DM-only content in
// rendered documents but is not otherwise access-controlled.
type NPC struct {
	Name       string `json:"name"`
	Race       string `json:"race"`
	Role       string `json:"role"`
	Motivation string `json:"motivation"`
	Secret     string `json:"secret"`
}

// Scene is one playable beat with dialog and player options.
type Scene struct {
	Title         string         `json:"title"`
	Location      string         `json:"location"`
	Setup         string         `json:"setup"`
	Dialog        []DialogLine   `json:"dialog"`
	PlayerOptions []PlayerOption `json:"player_options"`
}

// DialogLine is one spoken line in a scene.
type DialogLine struct {
	Speaker string `json:"speaker"`
	Line    string `json:"line"`
}

// PlayerOption is one labeled choice with its narrative outcome.
type PlayerOption struct {
	Label   string `json:"label"`
	Outcome string `json:"outcome"`
}

// DecisionFlow is a directed graph of narrative decision points. Option Next
// values should reference existing node ids, but this is not enforced;
// dangling edges are rendered as-is.
type DecisionFlow struct {
	Nodes []FlowNode `json:"nodes"`
}

// FlowNode is one decision point. A node with an empty ID is skipped by the
// diagram emitters.
type FlowNode struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Options []FlowOption `json:"options"`
}

// FlowOption is one labeled edge from its node to the node named by Next.
type FlowOption struct {
	Label string `json:"label"`
	Next  string `json:"next"`
}

// Handout is printable player-facing material.
type Handout struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
