package services

import "github.com/learn2earn/backend/internal/models"

// DefaultCatalog is seeded into an empty store on startup.
func DefaultCatalog() []models.Course {
	return []models.Course{
		{
			ID:              "c1",
			Title:           "JavaScript Basics",
			Platform:        "Udemy",
			PlatformInitial: "U",
			TokenValue:      30,
			RewardAmount:    5,
			DurationHours:   10,
			Type:            models.CourseTypeVideo,
			VideoURL:        "https://youtube.com/shorts/JPsJL123L8k",
		},
		{
			ID:              "c2",
			Title:           "React Essentials",
			Platform:        "IBM",
			PlatformInitial: "IBM",
			TokenValue:      75,
			RewardAmount:    15,
			DurationHours:   30,
			Type:            models.CourseTypeVideo,
			VideoURL:        "https://youtube.com/shorts/LoMNmhyUkCM",
		},
		{
			ID:              "c3",
			Title:           "LeetCode 10 Problems",
			Platform:        "Amazon",
			PlatformInitial: "AZ",
			TokenValue:      95,
			RewardAmount:    20,
			DurationHours:   20,
			Type:            models.CourseTypeVideo,
			VideoURL:        "https://youtube.com/shorts/Rfm8MnQzLeo",
		},
		{
			ID:              "c4",
			Title:           "Cloud Basics for Beginners",
			Platform:        "Google",
			PlatformInitial: "G",
			TokenValue:      45,
			RewardAmount:    8,
			DurationHours:   1,
			Type:            models.CourseTypeMCQ,
			Content: []string{
				"Cloud computing means storing and accessing data over the internet instead of your computer.",
				"Major providers include Google Cloud, AWS, Azure.",
				"Cloud helps companies scale instantly.",
			},
			MCQs: []models.MCQ{
				{
					Question: "Cloud computing means:",
					Options: []string{
						"Storing data only in pen drive",
						"Accessing data & apps via internet",
						"Only games stored in cloud",
						"None",
					},
					Correct: 1,
				},
				{
					Question: "Which company provides cloud services?",
					Options:  []string{"Google", "Infosys", "Zoom", "Jio TV"},
					Correct:  0,
				},
			},
		},
		{
			ID:              "c5",
			Title:           "Cybersecurity Essentials",
			Platform:        "Microsoft",
			PlatformInitial: "MS",
			TokenValue:      60,
			RewardAmount:    10,
			DurationHours:   2,
			Type:            models.CourseTypeMCQ,
			Content: []string{
				"Cybersecurity protects systems and data from attacks.",
				"Phishing is when attackers trick users into revealing sensitive information.",
				"Always enable Two-Factor Authentication.",
			},
			MCQs: []models.MCQ{
				{
					Question: "What is phishing?",
					Options: []string{
						"Fishing in water",
						"Tricking users to give sensitive data",
						"Fixing internet",
						"Cleaning laptop",
					},
					Correct: 1,
				},
				{
					Question: "Which is a security best practice?",
					Options:  []string{"Use same password everywhere", "Disable lockscreen", "Use 2FA", "Share password with friends"},
					Correct:  2,
				},
			},
		},
		{
			ID:              "c6",
			Title:           "Blockchain Fundamentals",
			Platform:        "Meta",
			PlatformInitial: "M",
			TokenValue:      80,
			RewardAmount:    12,
			DurationHours:   3,
			Type:            models.CourseTypeMCQ,
			Content: []string{
				"Blockchain is a distributed ledger across many computers.",
				"It is tamper-resistant and transparent.",
				"Bitcoin is the first real-world blockchain implementation.",
			},
			MCQs: []models.MCQ{
				{
					Question: "Blockchain is:",
					Options: []string{
						"A video game",
						"A distributed ledger",
						"A bank app",
						"Chat application",
					},
					Correct: 1,
				},
				{
					Question: "First major blockchain:",
					Options:  []string{"Ethereum", "Google Cloud", "Bitcoin", "Amazon Prime"},
					Correct:  2,
				},
			},
		},
	}
}
