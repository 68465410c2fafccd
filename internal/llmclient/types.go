// Package llmclient defines the chat-message model and LLM client contract
// used throughout the research pipeline, along with OpenAI, Bedrock, and
// in-memory mock implementations.
package llmclient

// MessageRole identifies who produced a ChatMessage.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ContentBlockType is the kind of payload a ContentBlock carries.
type ContentBlockType string

const (
	BlockText  ContentBlockType = "text"
	BlockImage ContentBlockType = "image"
)

// ContentBlock is one piece of a (possibly multimodal) message.
type ContentBlock struct {
	Type          ContentBlockType
	Text          string
	ImageBase64   string
	ImageMimeType string
}

// NewTextBlock builds a text content block.
func NewTextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: text}
}

// NewImageBase64Block builds an image content block from base64-encoded
// bytes, used when a subagent sends a rendered PDF page alongside its text.
func NewImageBase64Block(base64Data, mimeType string) ContentBlock {
	return ContentBlock{Type: BlockImage, ImageBase64: base64Data, ImageMimeType: mimeType}
}

// ChatMessage is a single turn in a conversation with an LLM. Content holds
// plain text; Blocks holds structured multimodal content. A message with
// both set concatenates Content as the first text block.
type ChatMessage struct {
	Role    MessageRole
	Content string
	Blocks  []ContentBlock
}

// NewSystemMessage builds a system-role text message.
func NewSystemMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

// NewUserMessage builds a user-role text message.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// NewMultiModalUserMessage builds a user-role message carrying text and
// image blocks together, used to hand a subagent's analyzer a rendered page
// alongside its extracted text.
func NewMultiModalUserMessage(text string, images ...ContentBlock) ChatMessage {
	blocks := append([]ContentBlock{NewTextBlock(text)}, images...)
	return ChatMessage{Role: RoleUser, Blocks: blocks}
}

// Text returns the message's text content, concatenating any text blocks
// after Content.
func (m ChatMessage) Text() string {
	text := m.Content
	for _, b := range m.Blocks {
		if b.Type == BlockText {
			text += b.Text
		}
	}
	return text
}
