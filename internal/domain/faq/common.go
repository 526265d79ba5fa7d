package faq

// CommonQuestion is a pre-answered policy question served without a model
// call.
type CommonQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var commonQuestions = []CommonQuestion{
	{
		Question: "How many hours of sick leave am I entitled to in NJ?",
		Answer:   "You are entitled to up to 40 hours of paid sick leave per year in New Jersey.",
	},
	{
		Question: "Can unused sick leave be carried over?",
		Answer: "Yes, up to 40 hours of unused sick leave can be carried over to the next benefit year, " +
			"but your employer is not required to let you use more than 40 hours in a year.",
	},
	{
		Question: "What reasons can I use sick leave for?",
		Answer: "You can use sick leave for your own illness, to care for a family member, for school closures, " +
			"for domestic/sexual violence recovery, and more.",
	},
	{
		Question: "Can I be fired for taking sick leave?",
		Answer:   "No. It is illegal for your employer to retaliate against you for using earned sick leave.",
	},
}

// CommonQuestions returns the canned FAQ list.
func CommonQuestions() []CommonQuestion {
	out := make([]CommonQuestion, len(commonQuestions))
	copy(out, commonQuestions)
	return out
}
