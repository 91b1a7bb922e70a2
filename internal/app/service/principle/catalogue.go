package principle

// catalogue is the static set of ten principles seeded on boot.
var catalogue = []struct {
	Title       string
	Description string
	Reflections []string
}{
	{
		Title:       "The Great Law",
		Description: "Cause and effect. Whatever you put into the world comes back to you.",
		Reflections: []string{
			"What did I give today that I would like to receive back?",
			"Which of my actions today will bear fruit tomorrow?",
		},
	},
	{
		Title:       "The Law of Creation",
		Description: "Life does not happen by itself; it requires your participation.",
		Reflections: []string{
			"What did I create today instead of waiting for it?",
			"Where did I let circumstances decide for me?",
		},
	},
	{
		Title:       "The Law of Humility",
		Description: "What you refuse to accept will continue for you.",
		Reflections: []string{
			"What situation am I resisting right now?",
			"What would change if I accepted it fully?",
		},
	},
	{
		Title:       "The Law of Growth",
		Description: "Wherever you go, there you are. Change yourself and the world around you changes.",
		Reflections: []string{
			"Which of my reactions today do I want to grow out of?",
			"What small step did I take toward who I want to be?",
		},
	},
	{
		Title:       "The Law of Responsibility",
		Description: "You mirror what surrounds you, and what surrounds you mirrors you.",
		Reflections: []string{
			"What did I blame on others today?",
			"Where can I take ownership of my part?",
		},
	},
	{
		Title:       "The Law of Connection",
		Description: "Everything in the universe is connected; every step leads to the next.",
		Reflections: []string{
			"How did a small action today connect to something larger?",
			"Who did I affect today without noticing?",
		},
	},
	{
		Title:       "The Law of Focus",
		Description: "You cannot think of two things at the same time.",
		Reflections: []string{
			"What pulled my attention away today?",
			"What deserved my full presence?",
		},
	},
	{
		Title:       "The Law of Giving",
		Description: "Your behaviour should match your words and beliefs.",
		Reflections: []string{
			"Did my actions today match what I say I value?",
			"What did I give freely, expecting nothing back?",
		},
	},
	{
		Title:       "The Law of Here and Now",
		Description: "Looking back keeps you from being fully present.",
		Reflections: []string{
			"What old story did I replay today?",
			"What did I notice when I was fully here?",
		},
	},
	{
		Title:       "The Law of Change",
		Description: "History repeats itself until you learn the lesson it brings.",
		Reflections: []string{
			"Which pattern showed up again today?",
			"What would breaking it look like?",
		},
	},
}
