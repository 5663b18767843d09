package mcp

import "github.com/mark3labs/mcp-go/mcp"

var renderMarkupToolDef = mcp.NewTool("render_markup",
	mcp.WithDescription("Render {@kind args} game markup to HTML or plain display text"),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Text containing markup tags such as {@spell Fireball|PHB}"),
	),
	mcp.WithString("mode",
		mcp.Description("markup (default) keeps literal text as is, text escapes it, display strips tags to their display text"),
		mcp.Enum(ModeMarkup, ModeText, ModeDisplay),
	),
)

var resolveReferenceToolDef = mcp.NewTool("resolve_reference",
	mcp.WithDescription("Look up a game entity and render its tooltip body"),
	mcp.WithString("type",
		mcp.Required(),
		mcp.Description("Entity type, e.g. spell, item, creature, class, condition"),
	),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Entity name"),
	),
	mcp.WithString("source",
		mcp.Description("Source book code; defaults to PHB"),
	),
)

var rollDiceToolDef = mcp.NewTool("roll_dice",
	mcp.WithDescription("Roll dice in NdS+M notation"),
	mcp.WithString("notation",
		mcp.Required(),
		mcp.Description("Dice notation such as 2d6+3"),
	),
)
