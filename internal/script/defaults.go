package script

import "greeting-agent/internal/domain"

const (
	DefaultMediaURL       = "https://rdvs21sr88.ufs.sh/f/s3nfBmqMFiPznFahl20y4zuStmYao6D92OXFQwAHV1Mr8Iej"
	DefaultClosingMessage = "I wanted to share this special moment with you ❤️"
)

// Default returns the birthday conversation.
func Default() Script {
	return Script{
		ClosingMessage: DefaultClosingMessage,
		MediaURL:       DefaultMediaURL,
		Prompts: []domain.Prompt{
			{
				ID:      "1",
				Title:   "Greeting",
				Message: "Hi there! I've been thinking about you. How are you doing today?",
				Options: []domain.Option{
					{ID: "1-1", Text: "I'm doing great! How about you?", Response: "I am excited cuz its your birthday. My baby is 21 yay. I was thinking about all the memories we have made together."},
					{ID: "1-2", Text: "I miss you", Response: "I miss you too babe and that is why I thought we should revisit some of our favourite memories together."},
					{ID: "1-3", Text: "What are you up to?", Response: "Just thinking about you and all our wonderful memories."},
				},
				SharedResponse: "That's wonderful to hear! I've been thinking about our special memories together.",
			},
			{
				ID:      "2",
				Title:   "Core Memories",
				Message: "What's your favorite memory of us together?",
				Options: []domain.Option{
					{ID: "2-1", Text: "Our first date", Response: "That was magical! I'll never forget how nervous I was and how beautiful you looked in the streets of Khan Market hehe"},
					{ID: "2-2", Text: "That trip to the Mumbai", Response: "The sunset was perfect that day, but not as perfect as you."},
					{ID: "2-3", Text: "When we cooked dinner together", Response: "Even though we burned the pasta, it was still the best meal ever because I was with you."},
				},
				SharedResponse: "That's one of my favorites too! Those special moments mean everything to me.",
			},
			{
				ID:      "3",
				Title:   "Things I Love",
				Message: "Do you know what I love most about you?",
				Options: []domain.Option{
					{ID: "3-1", Text: "My smile?", Response: "Yes! Your smile lights up my entire world every time I see it."},
					{ID: "3-2", Text: "My kindness?", Response: "Your kindness and compassion for others is truly inspiring."},
					{ID: "3-3", Text: "My sense of humor?", Response: "Definitely! You always know how to make me laugh, even on my worst days."},
				},
				UseSharedResponse: true,
				SharedResponse:    "That and so much more! Everything about you is perfect to me.",
			},
			{
				ID:      "4",
				Title:   "Friends",
				Message: "Do you miss me and your friends?",
				Options: []domain.Option{
					{ID: "4-1", Text: "Yes", Response: "awwww.... well a video shall be played next to show our best memories."},
					{ID: "4-2", Text: "No", Response: "hmmmm..... too bad we miss you ❤️"},
				},
			},
		},
	}
}

// DefaultCards returns the birthday messages shown in the deck.
func DefaultCards() []domain.Card {
	return []domain.Card{
		{ID: 1, Sender: "Riya", Subject: "Happy 21st!", Body: "Twenty one looks good on you. Remember the Goa trip? We still owe each other that sunrise.", Timestamp: "10:30 AM", AvatarURL: "/images/avatars/riya.jpg", ImageURL: "/images/memories/goa.jpg"},
		{ID: 2, Sender: "Kabir", Subject: "Birthday girl", Body: "Cake is on me this year, no excuses. Miss having you around campus.", Timestamp: "Yesterday", AvatarURL: "/images/avatars/kabir.jpg", ImageURL: "/images/memories/campus.jpg"},
		{ID: 3, Sender: "Ananya", Subject: "To my favourite person", Body: "Every late night call and every silly voice note. Thank you for all of it.", Timestamp: "Yesterday", AvatarURL: "/images/avatars/ananya.jpg", ImageURL: "/images/memories/calls.jpg"},
		{ID: 4, Sender: "Mom", Subject: "My baby is 21", Body: "Proud of you every single day. Come home soon, your favourite dinner is waiting.", Timestamp: "2 days ago", AvatarURL: "/images/avatars/mom.jpg", ImageURL: "/images/memories/home.jpg"},
		{ID: 5, Sender: "The Gang", Subject: "We miss you!", Body: "The group chat is not the same without you. Here's to many more birthdays together.", Timestamp: "3 days ago", AvatarURL: "/images/avatars/gang.jpg", ImageURL: "/images/memories/gang.jpg"},
	}
}

// DefaultCallToAction is shown once every card has been classified.
func DefaultCallToAction() domain.CallToAction {
	return domain.CallToAction{
		Title: "❤️ Aaryan sent you something",
		Body:  "He really misses you and wanted to say something",
		Label: "🤭 Go to chat",
		Route: "/chat",
	}
}
