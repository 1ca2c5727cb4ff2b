package entities

import "github.com/google/uuid"

// Clone methods produce deep copies so readers never alias live aggregate
// memory. The store hands out clones on every read; services clone mutation
// results before releasing the project lock.

// Clone deep-copies the project aggregate.
func (p *Project) Clone() *Project {
	cp := *p
	cp.MemberIDs = cloneIDSlice(p.MemberIDs)
	cp.Attachments = cloneAttachmentSlice(p.Attachments)

	cp.Tasks = make([]Task, len(p.Tasks))
	for i := range p.Tasks {
		cp.Tasks[i] = p.Tasks[i].Clone()
	}

	cp.Messages = make([]Message, len(p.Messages))
	for i := range p.Messages {
		cp.Messages[i] = p.Messages[i].Clone()
	}

	cp.UnreadTaskIDs = make(map[uuid.UUID][]uuid.UUID, len(p.UnreadTaskIDs))
	for userID, taskIDs := range p.UnreadTaskIDs {
		cp.UnreadTaskIDs[userID] = cloneIDSlice(taskIDs)
	}

	return &cp
}

// Clone deep-copies the task and its owned subtasks and attachments.
func (t *Task) Clone() Task {
	ct := *t
	ct.AssigneeIDs = cloneIDSlice(t.AssigneeIDs)
	ct.AcknowledgedBy = cloneIDSlice(t.AcknowledgedBy)
	ct.Attachments = cloneAttachmentSlice(t.Attachments)

	ct.Subtasks = make([]Subtask, len(t.Subtasks))
	for i := range t.Subtasks {
		ct.Subtasks[i] = t.Subtasks[i].Clone()
	}

	return ct
}

// Clone deep-copies the subtask.
func (st *Subtask) Clone() Subtask {
	cst := *st
	cst.AssigneeIDs = cloneIDSlice(st.AssigneeIDs)
	cst.Attachments = cloneAttachmentSlice(st.Attachments)
	return cst
}

// Clone deep-copies the message, including its reference snapshots.
func (m *Message) Clone() Message {
	cm := *m
	cm.ReadBy = cloneIDSlice(m.ReadBy)
	cm.Reactions = append([]Reaction(nil), m.Reactions...)
	if m.TaskRef != nil {
		ref := *m.TaskRef
		cm.TaskRef = &ref
	}
	if m.SubtaskRef != nil {
		ref := *m.SubtaskRef
		cm.SubtaskRef = &ref
	}
	if m.Quoted != nil {
		q := *m.Quoted
		cm.Quoted = &q
	}
	return cm
}

func cloneAttachmentSlice(attachments []Attachment) []Attachment {
	return append([]Attachment(nil), attachments...)
}

func cloneIDSlice(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return nil
	}
	return append([]uuid.UUID(nil), ids...)
}
