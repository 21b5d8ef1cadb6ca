package bot

import "fmt"

const (
	subjectNoAnswer = "You haven't gotten an answer!"
	subjectNoPost   = "You haven't submitted a post!"
	subjectHandOff  = "Congratulations, you can post the next round!"

	congratsBody = "Congratulations, that was the correct answer! Please " +
		"continue the game as soon as possible. You have been PM'd the " +
		"instructions for continuing the game."
)

func noAnswerWarning(warnMinutes, resetMinutes int) string {
	return fmt.Sprintf(
		"It seems that %s have passed since you submitted your round. "+
			"If no answer has been marked as correct in the next %d minutes, "+
			"the account will be reset. Try giving hints, or if you already "+
			"gave out a few hints, try and make them easier.",
		formatMinutes(warnMinutes), resetMinutes-warnMinutes)
}

func noPostWarning(warnMinutes, resetMinutes int) string {
	return fmt.Sprintf(
		"It seems that %d minutes have passed since you won the last round. "+
			"Please upload a post in the next %d minutes, or else your "+
			"account will be reset.",
		warnMinutes, resetMinutes-warnMinutes)
}

func abandonedNotice(resetMinutes int) string {
	return fmt.Sprintf(
		"This post has not been marked as solved for %s. The password of "+
			"the account has been reset and a new challenge will be created.",
		formatMinutes(resetMinutes))
}

func handOffBody(nextRound int, username, password string) string {
	return fmt.Sprintf(
		"Congratulations on winning the last round! Please login to the "+
			"account using the details below and submit a new round. Please "+
			"remember that your title must start with \"[Round %d]\"."+
			"\n\nFirst time winning? See the "+
			"[hosting guide](/r/picturegame/wiki/hosting)."+
			"\n\n---\nUsername: `%s`\n\nPassword: `%s`"+
			"\n\n> [Submit a new Round]"+
			"(https://www.reddit.com/r/PictureGame/submit?title=[Round%%20%d])",
		nextRound, username, password, nextRound)
}

func challengeTitle(round int) string {
	return fmt.Sprintf(
		"[Round %d] [Bot] In which iconic location was this Google "+
			"Street-View image taken?", round)
}

func formatMinutes(minutes int) string {
	if minutes%60 == 0 {
		hours := minutes / 60
		if hours == 1 {
			return "an hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	if minutes > 60 && minutes%30 == 0 {
		return fmt.Sprintf("%.1f hours", float64(minutes)/60)
	}
	return fmt.Sprintf("%d minutes", minutes)
}
