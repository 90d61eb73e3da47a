package domain

// Seed messages written once into an empty conversation log.
const (
	SeedSystemContent    = "I'm your personal style assistant. Let's create your fashion profile!"
	SeedAssistantContent = "Hi there! I'm your AI style assistant. I'll help you discover outfits that match your personal style. Let's get started with a few steps to understand your preferences better."
)

// Step scripts.
const (
	ScriptPhoto             = "Great! First, let's take a full-length photo so I can understand your body type and current style. Please take a photo in good lighting, standing straight to show your full height."
	ScriptLifestyle         = "Perfect! Now, tell me about your lifestyle. What's your daily routine like? Do you work in a formal environment or casual? What activities do you enjoy outside of work? Feel free to speak your response."
	ScriptOutfitPreferences = "Thanks for sharing! Now I'll show you some outfit options. Please like the ones that appeal to you so I can better understand your style preferences."
	ScriptFinalRequest      = "Great choices! Based on everything I've learned about you, what specific fashion advice or outfit recommendations are you looking for today?"
)

const (
	// ImageCaption is the content of every captured photo message.
	ImageCaption = "Uploaded a photo"

	// ImageMarker prefixes the content of image-bearing messages sent to the AI collaborator.
	ImageMarker = "[User uploaded an image]"

	// LikedSummaryPrefix starts the synthetic turn listing the liked outfits.
	LikedSummaryPrefix = "I liked outfits with IDs: "

	// FallbackReply replaces any failed or empty AI reply.
	FallbackReply = "I'm sorry, I had trouble processing your request. Could you try again?"

	// LifestyleTranscript stands in for the recorded voice note until real transcription exists.
	LifestyleTranscript = "I enjoy a casual lifestyle. I work in a creative office where the dress code is business casual. On weekends, I like to go hiking and meet friends for drinks. I prefer comfortable yet stylish clothes that can transition between different settings."
)
