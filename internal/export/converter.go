// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/storage"
)

// NewTranscript loads conversation id and its messages. Pending placeholders
// are left out. Unknown ids return storage.ErrConversationNotFound.
func NewTranscript(convs *storage.ConversationStore, msgs *storage.MessageStore, id string) (*Transcript, error) {
	conv, err := convs.Get(id)
	if err != nil {
		return nil, err
	}

	all := msgs.ListForConversation(id)
	kept := make([]*model.Message, 0, len(all))
	for _, m := range all {
		if m.IsLoading {
			continue
		}
		kept = append(kept, m)
	}
	return &Transcript{Conversation: conv, Messages: kept}, nil
}
