package llm

import (
	"fmt"
	"strings"
)

// AnswerQuestionPrompt builds the retrieval-augmented prompt for answering
// HR policy questions. The policy text comes from the document store; an
// empty string means nothing relevant was found and the model is instructed
// to say so.
func AnswerQuestionPrompt(question, policyText string) string {
	return fmt.Sprintf(`You are an AI HR assistant. Answer the following question using only the provided HR policy documents.

Question: %s

Relevant HR Policy Documents:
%s

If the answer is not found in the provided documents, respond with:
"I couldn't find an answer in the available HR policies, please ask a question related to it, thank you."

Additionally, if the question is a greeting, polite message, or general chat (e.g., "hello", "thank you", "how are you?", "good morning"):
- Respond appropriately in a friendly, professional manner.
- If the message is just a greeting, keep it short and engaging (e.g., "Hello! How can I assist you today?").
- If the message expresses gratitude (e.g., "thank you"), acknowledge it in a warm way (e.g., "You're very welcome! Let me know if you need anything else.").
- Keep responses polite and slightly humorous when appropriate, but always professional.

Provide a structured response in exactly this JSON format:
{
  "answer": "<your detailed answer here>"
}`, question, policyText)
}

// AnalyzeResumesPrompt builds the prompt for analyzing retrieval-ranked
// resumes against a hiring query. Resumes arrive pre-formatted as ranked
// blocks with their distance scores.
func AnalyzeResumesPrompt(query, formattedResumes string) string {
	return fmt.Sprintf("Below are resumes ranked by relevance to your query. Focus only on candidates that match the keywords "+
		"and provide a structured summary of their qualifications. Do NOT invent information:\n\n"+
		"Query: %s\n\n%s", query, formattedResumes)
}

// ScreenResumesPrompt builds the prompt for screening a batch of resume
// texts against a job description.
func ScreenResumesPrompt(jobDescription string, resumes []string) string {
	return fmt.Sprintf(`You are an AI-powered HR assistant evaluating resumes for a job opening.

Job Description:
%s

Below are the candidate resumes:
%s

Evaluate each resume based on its relevance to the job description.
Rank the resumes from most suitable to least suitable and provide a short reason for each ranking.

Format your response as:
[
  {"name": "<Candidate Name>", "score": <Score out of 10>, "reason": "<Why this candidate was ranked this way>"}
]`, jobDescription, strings.Join(resumes, "\n\n"))
}

// FeedbackPrompt builds the sentiment-analysis prompt for a single piece of
// employee feedback.
func FeedbackPrompt(feedbackText string) string {
	return fmt.Sprintf(`You are an AI HR assistant analyzing employee feedback.

Feedback:
%s

Analyze the sentiment (Positive, Neutral, or Negative) and extract key concerns or topics mentioned.
Provide a structured response in the following format:
{
  "sentiment": "<Positive, Neutral, or Negative>",
  "key_topics": ["topic1", "topic2"],
  "summary": "<Brief summary of the employee's concern>",
  "recommendations": "Suggestions for HR to address this feedback."
}`, feedbackText)
}

// EngagementPrompt builds the trend-analysis prompt over aggregated
// feedback entries.
func EngagementPrompt(feedbackList string) string {
	return fmt.Sprintf(`You are an AI HR assistant analyzing employee engagement based on feedback trends.

Below is a collection of employee feedback:
%s

Identify recurring topics, overall sentiment distribution, and key trends.
Provide a structured response in this format:
{
  "overall_sentiment_distribution": {
    "positive": "<Percentage of positive feedback>",
    "neutral": "<Percentage of neutral feedback>",
    "negative": "<Percentage of negative feedback>"
  },
  "top_recurring_topics": ["topic1", "topic2"],
  "summary": "<Brief summary of key engagement trends>",
  "recommendations": "Suggestions for improving employee engagement."
}`, feedbackList)
}

// RetentionPrompt builds the retention-risk prompt from employee history and
// engagement data (free-form JSON from the caller).
func RetentionPrompt(employeeData string) string {
	return fmt.Sprintf(`You are an AI HR assistant. Based on the following employee data, predict their retention risk.

Employee Data:
%s

Provide a structured response with risk level (low, medium, high) and reasons.`, employeeData)
}
