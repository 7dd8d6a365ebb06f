// Package feature contains the request handlers the router selects
// between: Calendar turns messages into calendar mutations, Conversation
// handles everything else in the assistant's voice. New capabilities are
// added as new types implementing router.Feature, registered in the
// serving commands.
package feature
