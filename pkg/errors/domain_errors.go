package errors

var (
	// Domain errors returned by services, matched with errors.Is
	ErrUserNotFound         = NotFound("user not found")
	ErrPostNotFound         = NotFound("post not found")
	ErrPollNotFound         = NotFound("post has no poll")
	ErrCommentNotFound      = NotFound("comment not found")
	ErrNotificationNotFound = NotFound("notification not found")
	ErrConversationNotFound = NotFound("conversation not found")
	ErrMessageNotFound      = NotFound("message not found")

	ErrAlreadyVoted = AlreadyExists("already voted")
	ErrNotVoted     = FailedPrecondition("has not voted")

	ErrEmptyContent       = InvalidArg("content cannot be empty")
	ErrContentTooLong     = InvalidArg("content is too long")
	ErrOptionOutOfRange   = InvalidArg("poll option index out of range")
	ErrInvalidPoll        = InvalidArg("poll needs a question and 2 to 10 non-empty options")
	ErrSelfFollow         = InvalidArg("cannot follow yourself")
	ErrTooFewParticipants = InvalidArg("conversation needs at least two distinct participants")
	ErrParentOnOtherPost  = InvalidArg("parent comment belongs to another post")
	ErrNotPostOwner       = Forbidden("you are not the owner of this post")
	ErrNotCommentOwner    = Forbidden("you are not the author of this comment")
	ErrNotRecipient       = Forbidden("notification belongs to another user")
	ErrNotParticipant     = Forbidden("you are not a participant of this conversation")
	ErrNotMessageSender   = Forbidden("you are not the sender of this message")
	ErrUnauthenticated    = Unauthorized("user not authenticated")
)

func ErrStoreBusy(cause error) error {
	return Unavailable("store conflict, try again", cause)
}
