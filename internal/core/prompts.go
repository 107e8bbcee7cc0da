package core

// Prompt templates prepended to extracted content before summarization.
const (
	VideoPrompt = "You are an elite educational content architect and master summarizer. " +
		"Transform this YouTube video transcript into professional-grade study notes.\n\n" +
		"**TRANSCRIPT:**\n"

	DocumentPrompt = "You are a world-class educational content designer. " +
		"Transform this document into premium-quality study notes.\n\n" +
		"**DOCUMENT CONTENT:**\n"
)
