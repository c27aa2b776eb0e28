package quiz

import "github.com/qualitydesk/qualitybot/internal/model"

// pool is the built-in question bank. Each round draws a random subset.
var pool = []model.QuizQuestion{
	{
		ID:       1,
		Question: "What does Cp measure in process capability analysis?",
		Options: []string{
			"Process centering",
			"Process spread relative to specifications",
			"Process variation",
			"Process accuracy",
		},
		Correct:     1,
		Explanation: "Cp measures the process spread relative to specification limits. It indicates how well the process variation fits within the specification range.",
		Category:    "Cp/Cpk",
	},
	{
		ID:       2,
		Question: "What does a Cp value of 1.33 indicate?",
		Options: []string{
			"Process is barely capable",
			"Process is well within specifications",
			"Process is out of control",
			"Process needs immediate improvement",
		},
		Correct:     1,
		Explanation: "Cp = 1.33 indicates the process spread is well within specification limits, showing good process capability.",
		Category:    "Cp/Cpk",
	},
	{
		ID:       3,
		Question: "What is the difference between Cp and Cpk?",
		Options: []string{
			"Cp considers centering, Cpk doesn't",
			"Cpk considers centering, Cp doesn't",
			"Cp is for continuous data, Cpk for discrete",
			"There is no difference",
		},
		Correct:     1,
		Explanation: "Cpk considers both process spread and centering, while Cp only considers spread relative to specifications.",
		Category:    "Cp/Cpk",
	},
	{
		ID:       4,
		Question: "A process with Cp = 2.0 and Cpk = 1.0 indicates:",
		Options: []string{
			"Process is well centered and capable",
			"Process is capable but not centered",
			"Process is centered but not capable",
			"Process is neither centered nor capable",
		},
		Correct:     1,
		Explanation: "High Cp (2.0) shows good spread, but low Cpk (1.0) indicates the process is not well centered within specifications.",
		Category:    "Cp/Cpk",
	},
	{
		ID:       5,
		Question: "What is the minimum acceptable Cp value for a capable process?",
		Options: []string{
			"0.5",
			"1.0",
			"1.33",
			"2.0",
		},
		Correct:     2,
		Explanation: "Cp >= 1.33 is generally considered the minimum for a capable process in most industries.",
		Category:    "Cp/Cpk",
	},
	{
		ID:       6,
		Question: "In 5 Whys analysis, how many times should you ask 'Why'?",
		Options: []string{
			"Exactly 5 times",
			"Until you reach the root cause",
			"3-7 times depending on complexity",
			"As many times as needed",
		},
		Correct:     1,
		Explanation: "The goal is to reach the root cause, not necessarily exactly 5 times. Sometimes it takes 3 times, sometimes 7 times.",
		Category:    "5 Whys",
	},
	{
		ID:       7,
		Question: "What is the main purpose of 5 Whys analysis?",
		Options: []string{
			"To assign blame",
			"To identify root causes",
			"To document problems",
			"To create action plans",
		},
		Correct:     1,
		Explanation: "5 Whys is a systematic approach to identify the root cause of a problem by repeatedly asking 'Why'.",
		Category:    "5 Whys",
	},
	{
		ID:       8,
		Question: "Which of the following is a common pitfall in 5 Whys analysis?",
		Options: []string{
			"Asking too many questions",
			"Stopping too early",
			"Involving too many people",
			"Taking too much time",
		},
		Correct:     1,
		Explanation: "A common pitfall is stopping at symptoms rather than continuing until you reach the true root cause.",
		Category:    "5 Whys",
	},
	{
		ID:       9,
		Question: "Which quality tool is best for identifying the most frequent defects?",
		Options: []string{
			"Fishbone Diagram",
			"Pareto Chart",
			"Control Chart",
			"5 Whys Analysis",
		},
		Correct:     1,
		Explanation: "Pareto Chart is specifically designed to identify the most frequent issues using the 80/20 principle.",
		Category:    "Quality Tools",
	},
	{
		ID:       10,
		Question: "What is the purpose of a Fishbone Diagram?",
		Options: []string{
			"To show process flow",
			"To identify root causes",
			"To measure process capability",
			"To track trends over time",
		},
		Correct:     1,
		Explanation: "Fishbone Diagram (Ishikawa) helps identify potential root causes by organizing them into categories like Man, Machine, Material, Method, Environment, and Measurement.",
		Category:    "Fishbone",
	},
	{
		ID:       11,
		Question: "What does the 80/20 rule in Pareto analysis mean?",
		Options: []string{
			"80% of problems come from 20% of causes",
			"80% of time should be spent on 20% of tasks",
			"80% of defects are acceptable",
			"80% of processes are automated",
		},
		Correct:     0,
		Explanation: "The Pareto principle states that roughly 80% of effects come from 20% of causes, helping prioritize improvement efforts.",
		Category:    "Quality Tools",
	},
	{
		ID:       12,
		Question: "Which tool is best for monitoring process stability over time?",
		Options: []string{
			"Pareto Chart",
			"Control Chart",
			"Fishbone Diagram",
			"5 Whys Analysis",
		},
		Correct:     1,
		Explanation: "Control Charts are specifically designed to monitor process stability and detect when a process goes out of control.",
		Category:    "Quality Tools",
	},
	{
		ID:       13,
		Question: "What are the three zones in a Control Chart?",
		Options: []string{
			"Green, Yellow, Red",
			"Zone A, Zone B, Zone C",
			"Upper, Middle, Lower",
			"Safe, Warning, Danger",
		},
		Correct:     1,
		Explanation: "Control charts typically have three zones: Zone A (closest to center line), Zone B (middle), and Zone C (outer zones).",
		Category:    "Quality Tools",
	},
	{
		ID:       14,
		Question: "What is the primary purpose of a Scatter Diagram?",
		Options: []string{
			"To show trends over time",
			"To identify relationships between variables",
			"To categorize problems",
			"To measure process capability",
		},
		Correct:     1,
		Explanation: "Scatter Diagrams help identify potential relationships between two variables by plotting data points.",
		Category:    "Quality Tools",
	},
	{
		ID:       15,
		Question: "Which quality tool is also known as the Ishikawa Diagram?",
		Options: []string{
			"Pareto Chart",
			"Fishbone Diagram",
			"Control Chart",
			"Scatter Diagram",
		},
		Correct:     1,
		Explanation: "The Fishbone Diagram was developed by Kaoru Ishikawa, hence it's also called the Ishikawa Diagram.",
		Category:    "Quality Tools",
	},
	{
		ID:       16,
		Question: "What does TQM stand for?",
		Options: []string{
			"Total Quality Management",
			"Team Quality Management",
			"Technical Quality Metrics",
			"Total Quality Metrics",
		},
		Correct:     0,
		Explanation: "TQM stands for Total Quality Management, a comprehensive approach to quality improvement.",
		Category:    "Quality Management",
	},
	{
		ID:       17,
		Question: "What is the purpose of a Quality Policy?",
		Options: []string{
			"To set quality standards",
			"To define organizational quality objectives",
			"To assign quality responsibilities",
			"All of the above",
		},
		Correct:     3,
		Explanation: "A Quality Policy defines the overall quality objectives and commitment of an organization.",
		Category:    "Quality Management",
	},
	{
		ID:       18,
		Question: "What is the first step in the PDCA cycle?",
		Options: []string{
			"Plan",
			"Do",
			"Check",
			"Act",
		},
		Correct:     0,
		Explanation: "PDCA stands for Plan-Do-Check-Act, with Plan being the first step in the continuous improvement cycle.",
		Category:    "Quality Management",
	},
	{
		ID:       19,
		Question: "What is the main goal of Six Sigma?",
		Options: []string{
			"To reduce defects to 3.4 per million",
			"To improve customer satisfaction",
			"To reduce costs",
			"All of the above",
		},
		Correct:     3,
		Explanation: "Six Sigma aims to reduce defects, improve customer satisfaction, and reduce costs through systematic improvement.",
		Category:    "Quality Management",
	},
	{
		ID:       20,
		Question: "What does DMAIC stand for in Six Sigma?",
		Options: []string{
			"Define, Measure, Analyze, Improve, Control",
			"Design, Measure, Analyze, Implement, Control",
			"Define, Monitor, Analyze, Improve, Control",
			"Design, Monitor, Analyze, Implement, Control",
		},
		Correct:     0,
		Explanation: "DMAIC is the core methodology of Six Sigma: Define, Measure, Analyze, Improve, Control.",
		Category:    "Quality Management",
	},
}
