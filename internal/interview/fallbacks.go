package interview

import (
	"fmt"
	"strings"

	"github.com/talentscout/hiring-assistant/internal/types"
)

// Every scripted response the controller may substitute when generation fails
// lives in this file. Fallback content keeps the interview protocol moving;
// it is never an error message.

// ClosingMessage is the fixed terminal response. Once a conversation is
// terminated every further message receives exactly this text.
const ClosingMessage = "Thank you for your time today! Your interview is complete and our team " +
	"will review your responses within 2-3 business days. We'll reach out with next steps. Best of luck!"

const (
	fallbackRapportReply = "That's great to hear! I'd love to know more about what you've been " +
		"working on recently. What project are you most proud of?"

	fallbackFeedback = "Thanks for walking me through that. Let's keep going."

	fallbackPostQAReply = "That's a good question. Our team reviews all responses within 2-3 " +
		"business days and will reach out with next steps. Is there anything else you'd like to know?"

	fallbackAnalysisSummary = "The candidate completed the full technical screening. Detailed " +
		"automated analysis was unavailable; scores reflect the per-answer feedback recorded during the interview."
)

// technicalTransitionIntro introduces the first technical question.
const technicalTransitionIntro = "It's been great getting to know you! Let's move into the " +
	"technical portion of the interview."

// fallbackQuestionPools holds static questions per technology, keyed by
// lowercase tag. Each pool is longer than the default question quota so
// deterministic selection never repeats within one interview.
var fallbackQuestionPools = map[string][]string{
	"python": {
		"Can you explain the difference between a list and a tuple in Python?",
		"How does Python's garbage collection work?",
		"What are decorators and when would you use one?",
		"Explain the difference between deep copy and shallow copy.",
		"How do you handle exceptions in Python, and when would you define a custom exception?",
		"What is the Global Interpreter Lock and how does it affect multithreaded code?",
	},
	"go": {
		"What is a goroutine and how does it differ from an operating system thread?",
		"How do channels help coordinate concurrent work in Go?",
		"Explain how error handling works in Go and how you design error types.",
		"What does the defer statement do and when does it run?",
		"How do interfaces work in Go, and how do they differ from interfaces in other languages?",
		"What tools do you use to detect race conditions in Go programs?",
	},
	"javascript": {
		"Can you explain how closures work in JavaScript?",
		"What is the event loop and how does asynchronous code execute?",
		"Explain the difference between var, let, and const.",
		"How do promises differ from callbacks, and where does async/await fit in?",
		"What is prototypal inheritance?",
		"How would you debug a memory leak in a long-running JavaScript application?",
	},
	"java": {
		"Explain the difference between an interface and an abstract class in Java.",
		"How does the JVM manage memory, and what triggers garbage collection?",
		"What is the difference between checked and unchecked exceptions?",
		"How do you write thread-safe code in Java?",
		"Explain how HashMap works internally.",
		"What are generics and why do they exist?",
	},
	"sql": {
		"What is the difference between an inner join and a left join?",
		"How do indexes speed up queries, and what is their cost?",
		"Explain what a transaction is and what the isolation levels mean.",
		"When would you denormalize a schema?",
		"How would you find and fix a slow query?",
		"What is the difference between WHERE and HAVING?",
	},
}

// generalFallbackQuestions is used when no pool matches the candidate's stack.
var generalFallbackQuestions = []string{
	"Tell me about a challenging technical problem you solved recently. How did you approach it?",
	"How do you decide when code is ready to ship?",
	"Describe a time you had to learn a new technology quickly. What was your process?",
	"How do you approach debugging an issue you've never seen before?",
	"What does good code review look like to you?",
	"Tell me about a technical decision you made that you later reconsidered. What changed?",
}

// fallbackPool returns the static question pool for a candidate's primary
// technology, defaulting to the general pool.
func fallbackPool(profile *types.CandidateProfile) []string {
	for _, tech := range profile.TechStack {
		if pool, ok := fallbackQuestionPools[strings.ToLower(strings.TrimSpace(tech))]; ok {
			return pool
		}
	}
	return generalFallbackQuestions
}

// fallbackQuestionSet deterministically selects count distinct questions from
// the candidate's static pool.
func fallbackQuestionSet(profile *types.CandidateProfile, count int) []string {
	pool := fallbackPool(profile)
	questions := make([]string, 0, count)
	for i := 0; i < count; i++ {
		questions = append(questions, pool[i%len(pool)])
	}
	return questions
}

// fallbackQuestion deterministically selects a single static question,
// skipping ahead when the selection matches the previous question text.
func fallbackQuestion(profile *types.CandidateProfile, answeredCount int, previous string) string {
	pool := fallbackPool(profile)
	q := pool[answeredCount%len(pool)]
	if q == previous {
		q = pool[(answeredCount+1)%len(pool)]
	}
	return q
}

// terminationKeywords is the fixed closing-phrase set for POST_QA. Matching
// is a case-insensitive substring check; first match wins.
var terminationKeywords = []string{
	"goodbye",
	"thank you",
	"thanks",
	"bye",
	"end",
	"finish",
	"done",
}

// isTermination reports whether the input requests ending the conversation.
func isTermination(input string) bool {
	lower := strings.ToLower(input)
	for _, kw := range terminationKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Greeting opens the conversation after profile confirmation.
func Greeting(profile *types.CandidateProfile) string {
	return fmt.Sprintf("Hi %s! Thanks for confirming your details. Before we dive into the "+
		"technical questions, I'd love to get to know you a little. What got you interested in "+
		"the %s role?", profile.FullName, profile.DesiredPosition)
}

// renderAnalysis formats the analysis for the candidate-facing scoring message.
func renderAnalysis(analysis *types.ComprehensiveAnalysis) string {
	var sb strings.Builder
	sb.WriteString("That wraps up the technical portion. Here's a summary of how you did:\n\n")
	fmt.Fprintf(&sb, "Overall: %.1f/10 (%s)\n", analysis.OverallScore, analysis.HiringRecommendation)
	fmt.Fprintf(&sb, "Technical: %.1f/10 | Communication: %.1f/10 | Problem solving: %.1f/10\n",
		analysis.TechnicalScore, analysis.CommunicationScore, analysis.ProblemSolvingScore)
	if len(analysis.KeyStrengths) > 0 {
		fmt.Fprintf(&sb, "\nKey strengths: %s\n", strings.Join(analysis.KeyStrengths, "; "))
	}
	if analysis.Summary != "" {
		fmt.Fprintf(&sb, "\n%s\n", analysis.Summary)
	}
	sb.WriteString("\nDo you have any questions for me about the role or the process?")
	return sb.String()
}
