package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"tasks/internal/dto"
	"tasks/internal/mapper"
	"tasks/internal/service"
)

type TaskListHandler struct {
	svc    service.TaskLists
	mapper mapper.TaskListMapper
	log    log.FieldLogger
}

func NewTaskListHandler(svc service.TaskLists, m mapper.TaskListMapper, logger log.FieldLogger) *TaskListHandler {
	return &TaskListHandler{svc: svc, mapper: m, log: logger}
}

// List godoc
// @Summary      List all task lists
// @Tags         task-lists
// @Produce      json
// @Success      200  {object}  dto.ListTaskListsResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /task-lists [get]
func (h *TaskListHandler) List(c *gin.Context) {
	lists, err := h.svc.ListTaskLists(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	items := make([]dto.TaskList, len(lists))
	for i := range lists {
		items[i] = h.mapper.ToDto(lists[i])
	}
	c.JSON(http.StatusOK, dto.ListTaskListsResponse{Items: items})
}

// Create godoc
// @Summary      Create a task list
// @Tags         task-lists
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TaskList  true  "Task list"
// @Success      201   {object}  dto.TaskList
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /task-lists [post]
func (h *TaskListHandler) Create(c *gin.Context) {
	var req dto.TaskList
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error())
		return
	}
	in := h.mapper.FromDto(req)
	if in.HasID() {
		respond(c, http.StatusBadRequest, "task list already has an id")
		return
	}
	l, err := h.svc.CreateTaskList(c.Request.Context(), in.Title, in.Description)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, h.mapper.ToDto(l))
}

// Get godoc
// @Summary      Get a task list by ID
// @Tags         task-lists
// @Produce      json
// @Param        task_list_id  path      string  true  "Task list ID (UUID)"
// @Success      200           {object}  dto.TaskList
// @Failure      400           {object}  dto.ErrorResponse
// @Failure      404           {object}  dto.ErrorResponse
// @Router       /task-lists/{task_list_id} [get]
func (h *TaskListHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "task_list_id")
	if !ok {
		return
	}
	l, err := h.svc.GetTaskList(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if l == nil {
		respond(c, http.StatusNotFound, "task list not found: "+id.String())
		return
	}
	c.JSON(http.StatusOK, h.mapper.ToDto(*l))
}

// Update godoc
// @Summary      Update a task list
// @Tags         task-lists
// @Accept       json
// @Produce      json
// @Param        task_list_id  path      string        true  "Task list ID (UUID)"
// @Param        body          body      dto.TaskList  true  "Task list"
// @Success      200           {object}  dto.TaskList
// @Failure      400           {object}  dto.ErrorResponse
// @Failure      404           {object}  dto.ErrorResponse
// @Router       /task-lists/{task_list_id} [put]
func (h *TaskListHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "task_list_id")
	if !ok {
		return
	}
	var req dto.TaskList
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error())
		return
	}
	in := h.mapper.FromDto(req)
	l, err := h.svc.UpdateTaskList(c.Request.Context(), id, in.Title, in.Description)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.mapper.ToDto(l))
}

// Delete godoc
// @Summary      Delete a task list and all of its tasks
// @Tags         task-lists
// @Param        task_list_id  path  string  true  "Task list ID (UUID)"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /task-lists/{task_list_id} [delete]
func (h *TaskListHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "task_list_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteTaskList(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
