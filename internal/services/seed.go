package services

import "github.com/novalabs/nova/internal/models"

// SampleQuizzes returns the built-in quiz content used to bootstrap a fresh
// deployment. Seeding replaces existing quiz content wholesale.
func SampleQuizzes() []*models.Quiz {
	return []*models.Quiz{
		{
			ID:         "substance-abuse-basics",
			Title:      "Substance Abuse Basics",
			Category:   "Education",
			Difficulty: "Beginner",
			Language:   "english",
			Questions: []models.Question{
				{
					Question: "What is the most common reason adolescents start using substances?",
					Options: []string{
						"Peer pressure",
						"Academic stress",
						"Family problems",
						"Curiosity",
					},
					CorrectAnswer: 0,
					Explanation:   "Peer pressure is the most common factor, where young people feel compelled to fit in with their social group.",
				},
				{
					Question: "Which substance is most commonly abused by Indian youth?",
					Options: []string{
						"Tobacco",
						"Alcohol",
						"Marijuana",
						"Prescription drugs",
					},
					CorrectAnswer: 0,
					Explanation:   "Tobacco, in forms like cigarettes and gutka, is the most commonly abused substance among Indian youth.",
				},
				{
					Question: "What is a healthy alternative to cope with stress instead of substance use?",
					Options: []string{
						"Exercise and sports",
						"Talking to friends or counselors",
						"Meditation and yoga",
						"All of the above",
					},
					CorrectAnswer: 3,
					Explanation:   "All these are healthy alternatives that help manage stress without harmful consequences.",
				},
			},
		},
		{
			ID:         "peer-pressure-resistance",
			Title:      "Peer Pressure Resistance",
			Category:   "Skills",
			Difficulty: "Intermediate",
			Language:   "english",
			Questions: []models.Question{
				{
					Question: "What's the best way to say 'no' to substance offers?",
					Options: []string{
						"Be assertive and direct",
						"Make excuses and leave",
						"Give in to avoid conflict",
						"Ignore the person",
					},
					CorrectAnswer: 0,
					Explanation:   "Being assertive and direct is the most effective way to communicate your boundaries clearly.",
				},
				{
					Question: "True friends will:",
					Options: []string{
						"Respect your decision to stay substance-free",
						"Pressure you to try substances",
						"Make fun of your choices",
						"Exclude you for not participating",
					},
					CorrectAnswer: 0,
					Explanation:   "True friends respect your decisions and values, including your choice to stay substance-free.",
				},
			},
		},
	}
}
