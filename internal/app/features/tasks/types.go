// internal/app/features/tasks/types.go
package tasks

// taskInput is the body of create and update. On update nil leaves a field
// alone and an empty string clears it.
type taskInput struct {
	ClientID    *string `json:"client_id" validate:"omitempty,max=40" label:"Client"`
	Title       *string `json:"title" validate:"omitempty,max=300" label:"Title"`
	Description *string `json:"description" validate:"omitempty,max=10000" label:"Description"`
	Category    *string `json:"category" validate:"omitempty,taskcategory" label:"Category"`
	Priority    *string `json:"priority" validate:"omitempty,taskpriority" label:"Priority"`
	Status      *string `json:"status" validate:"omitempty,taskstatus" label:"Status"`
	AssignedTo  *string `json:"assigned_to" validate:"omitempty,objectid" label:"Assignee"`
	DueDate     *string `json:"due_date"`
}
