package tools

// Tool name constants

// Graph tools operate directly on a user's knowledge graph
const (
	ToolCreateEntities     = "create_entities"
	ToolCreateRelations    = "create_relations"
	ToolAddObservations    = "add_observations"
	ToolDeleteEntities     = "delete_entities"
	ToolDeleteObservations = "delete_observations"
	ToolDeleteRelations    = "delete_relations"
	ToolReadGraph          = "read_graph"
	ToolSearchNodes        = "search_nodes"
	ToolOpenNodes          = "open_nodes"
)

// Assistant tools drive the job-search features on top of the graph
const (
	ToolProcessUserMessage    = "process_user_message"
	ToolGetJobRecommendations = "get_job_recommendations"
)

// Tool describes a callable tool to the agent runtime
type Tool struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition is the function-call contract for a tool
type FunctionDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// GetGraphTools returns the direct knowledge-graph tools
func GetGraphTools() []Tool {
	return []Tool{
		{
			Type: "function",
			Function: FunctionDefinition{
				Name:        ToolCreateEntities,
				Description: "Create multiple new entities in the user's knowledge graph. Existing entities are left unchanged; provided observations are appended.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"user_id": map[string]interface{}{
							"type":        "string",
							"description": "The user whose graph to write to",
						},
						"entities": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"name": map[string]interface{}{
										"type":        "string",
										"description": "Entity name, unique per user",
									},
									"type": map[string]interface{}{
										"type":        "string",
										"description": "Entity type label, e.g. 'skill', 'company', 'role'",
									},
									"observations": map[string]interface{}{
										"type":        "array",
										"items":       map[string]interface{}{"type": "string"},
										"description": "Fact snippets to attach to the entity",
									},
								},
								"required": []string{"name", "type"},
							},
						},
					},
					"required": []string{"user_id", "entities"},
				},
			},
		},
		{
			Type: "function",
			Function: FunctionDefinition{
				Name:        ToolCreateRelations,
				Description: "Create directed, typed relations between entities in the user's knowledge graph. Relations should use active voice. Missing endpoint entities are created implicitly.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"user_id": map[string]interface{}{
							"type":        "string",
							"description": "The user whose graph to write to",
						},
						"relations": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"from": map[string]interface{}{
										"type":        "string",
										"description": "Name of the source entity",
									},
									"type": map[string]interface{}{
										"type":        "string",
										"description": "Relation type",
									},
									"to": map[string]interface{}{
										"type":        "string",
										"description": "Name of the target entity",
									},
								},
								"required": []string{"from", "type", "to"},
							},
						},
					},
					"required": []string{"user_id", "relations"},
				},
			},
		},
		{
			Type: "function",
			Function: FunctionDefinition{
				Name:        ToolAddObservations,
				Description: "Append observations to an entity in the user's knowledge graph, creating the entity if needed.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"user_id": map[string]interface{}{
							"type":        "string",
							"description": "The user whose graph to write to",
						},
						"name": map[string]interface{}{
							"type":        "string",
							"description": "Entity name to attach the observations to",
						},
						"observations": map[string]interface{}{
							"type":        "array",
							"items":       map[string]interface{}{"type": "string"},
							"description": "Fact snippets to append, in order",
						},
					},
					"required": []string{"user_id", "name", "observations"},
				},
			},
		},
		{
			Type: "function",
			Function: FunctionDefinition{
				Name:        ToolDeleteEntities,
				Description: "Delete entities from the user's knowledge graph along with every relation referencing them.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"user_id": map[string]interface{}{
							"type":        "string",
							"description": "The user whose graph to write to",
						},
						"names": map[string]interface{}{
							"type":        "array",
							"items":       map[string]interface{}{"type": "string"},
							"description": "Names of the entities to delete",
						},
					},
					"required": []string{"user_id", "names"},
				},
			},
		},
		{
			Type: "function",
			Function: FunctionDefinition{
				Name:        ToolDeleteObservations,
				Description: "Delete specific observation texts from an entity in the user's knowledge graph.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"user_id": map[string]interface{}{
							"type":        "string",
							"description": "The user whose graph to write to",
						},
						"name": map[string]interface{}{
							"type":        "string",
							"description": "Entity holding the observations",
						},
						"observations": map[string]interface{}{
							"type":        "array",
							"items":       map[string]interface{}{"type": "string"},
							"description": "Exact observation texts to remove",
						},
					},
					"required": []string{"user_id", "name", "observations"},
				},
			},
		},
		{
			Type: "function",
			Function: FunctionDefinition{
				Name:        ToolDeleteRelations,
				Description: "Delete relations from the user's knowledge graph.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"user_id": map[string]interface{}{
							"type":        "string",
							"description": "The user whose graph to write to",
						},
						"relations": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"from": map[string]interface{}{"type": "string"},
									"type": map[string]interface{}{"type": "string"},
									"to":   map[string]interface{}{"type": "string"},
								},
								"required": []string{"from", "type", "to"},
							},
							"description": "Relations to delete",
						},
					},
					"required": []string{"user_id", "relations"},
				},
			},
		},
		{
			Type: "function",
			Function: FunctionDefinition{
				Name:        ToolReadGraph,
				Description: "Read the user's entire knowledge graph.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"user_id": map[string]interface{}{
							"type":        "string",
							"description": "The user whose graph to read",
						},
					},
					"required": []string{"user_id"},
				},
			},
		},
		{
			Type: "function",
			Function: FunctionDefinition{
				Name:        ToolSearchNodes,
				Description: "Search the user's knowledge graph for nodes matching a query against entity names, types, and observation contents.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"user_id": map[string]interface{}{
							"type":        "string",
							"description": "The user whose graph to search",
						},
						"query": map[string]interface{}{
							"type":        "string",
							"description": "Case-insensitive substring to match",
						},
					},
					"required": []string{"user_id", "query"},
				},
			},
		},
		{
			Type: "function",
			Function: FunctionDefinition{
				Name:        ToolOpenNodes,
				Description: "Retrieve specific nodes from the user's knowledge graph by name. Names that do not exist are skipped.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"user_id": map[string]interface{}{
							"type":        "string",
							"description": "The user whose graph to read",
						},
						"names": map[string]interface{}{
							"type":        "array",
							"items":       map[string]interface{}{"type": "string"},
							"description": "Entity names to retrieve",
						},
					},
					"required": []string{"user_id", "names"},
				},
			},
		},
	}
}

// GetAssistantTools returns the job-search assistant tools
func GetAssistantTools() []Tool {
	return []Tool{
		{
			Type: "function",
			Function: FunctionDefinition{
				Name:        ToolProcessUserMessage,
				Description: "Process a user message, extract job-search-related facts, and store them in the user's knowledge graph. Messages without job-related content are skipped.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"user_id": map[string]interface{}{
							"type":        "string",
							"description": "The user the message belongs to",
						},
						"message": map[string]interface{}{
							"type":        "string",
							"description": "The raw message content",
						},
					},
					"required": []string{"user_id", "message"},
				},
			},
		},
		{
			Type: "function",
			Function: FunctionDefinition{
				Name:        ToolGetJobRecommendations,
				Description: "Produce job-search advice from the user's knowledge graph. Types: 'resume', 'interview', 'skills', or 'general'.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"user_id": map[string]interface{}{
							"type":        "string",
							"description": "The user to advise",
						},
						"recommendation_type": map[string]interface{}{
							"type":        "string",
							"description": "One of 'general', 'resume', 'interview', 'skills'. Defaults to 'general'.",
						},
					},
					"required": []string{"user_id"},
				},
			},
		},
	}
}

// GetAllTools returns every tool this façade dispatches
func GetAllTools() []Tool {
	return append(GetGraphTools(), GetAssistantTools()...)
}
