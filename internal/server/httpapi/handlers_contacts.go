package httpapi

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vkushnir/contactbook/internal/server/models"
	"github.com/vkushnir/contactbook/internal/server/services"
)

// maxPhotoSize caps contact photo uploads at 10 MB.
const maxPhotoSize = 10 << 20

type createContactRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	ContactType string `json:"contactType"`
	IsFavourite bool   `json:"isFavourite"`
}

func (r *createContactRequest) Validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)

	if r.Name == "" || r.PhoneNumber == "" || r.ContactType == "" {
		return "Missing required fields: name, phoneNumber, contactType"
	}
	if len(r.Name) < 3 || len(r.Name) > 20 {
		return "Name must be 3-20 characters"
	}
	if len(r.PhoneNumber) < 3 || len(r.PhoneNumber) > 20 {
		return "Phone must be 3-20 characters"
	}
	if !models.ValidContactType(r.ContactType) {
		return "Invalid contact type"
	}
	if r.Email != "" {
		if msg := validateEmail(r.Email); msg != "" {
			return msg
		}
	}
	return ""
}

type updateContactRequest struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phoneNumber"`
	Email       *string `json:"email"`
	ContactType *string `json:"contactType"`
	IsFavourite *bool   `json:"isFavourite"`
}

func (r *updateContactRequest) Validate() string {
	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
		if len(*r.Name) < 3 || len(*r.Name) > 20 {
			return "Name must be 3-20 characters long"
		}
	}
	if r.PhoneNumber != nil {
		*r.PhoneNumber = strings.TrimSpace(*r.PhoneNumber)
		if len(*r.PhoneNumber) < 3 || len(*r.PhoneNumber) > 20 {
			return "Phone number must be 3-20 characters long"
		}
	}
	if r.Email != nil && *r.Email != "" {
		if msg := validateEmail(*r.Email); msg != "" {
			return msg
		}
	}
	if r.ContactType != nil && !models.ValidContactType(*r.ContactType) {
		return "Invalid contact type"
	}
	return ""
}

// isMultipart reports whether the request carries multipart/form-data.
func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// photoFromForm extracts the optional photo part from an already-parsed
// multipart form. The caller must close the returned reader indirectly by
// finishing the request.
func photoFromForm(r *http.Request) *services.PhotoUpload {
	file, header, err := r.FormFile("photo")
	if err != nil {
		return nil
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &services.PhotoUpload{ContentType: contentType, Body: file}
}

func (s *Server) contactIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid ID format")
		return "", false
	}
	return id, true
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	result, err := s.contacts.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.sendServiceError(w, r, err)
		return
	}
	if result == nil {
		result = []*models.Contact{}
	}
	s.sendJSON(w, http.StatusOK, "Successfully found contacts!", result)
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := s.contactIDFromPath(w, r)
	if !ok {
		return
	}

	contact, err := s.contacts.Get(r.Context(), userIDFromContext(r.Context()), id)
	if err != nil {
		s.sendServiceError(w, r, err)
		return
	}
	s.sendJSON(w, http.StatusOK, "Successfully found contact!", contact)
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req createContactRequest
	var photo *services.PhotoUpload

	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
		if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
			s.sendError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		req.Name = r.FormValue("name")
		req.PhoneNumber = r.FormValue("phoneNumber")
		req.Email = r.FormValue("email")
		req.ContactType = r.FormValue("contactType")
		req.IsFavourite, _ = strconv.ParseBool(r.FormValue("isFavourite"))
		photo = photoFromForm(r)
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.sendError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	if msg := req.Validate(); msg != "" {
		s.sendError(w, http.StatusBadRequest, msg)
		return
	}

	contact := &models.Contact{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		ContactType: req.ContactType,
		IsFavourite: req.IsFavourite,
	}

	created, err := s.contacts.Create(r.Context(), userIDFromContext(r.Context()), contact, photo)
	if err != nil {
		s.sendServiceError(w, r, err)
		return
	}
	s.sendJSON(w, http.StatusCreated, "Successfully created contact!", created)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := s.contactIDFromPath(w, r)
	if !ok {
		return
	}

	var req updateContactRequest
	var photo *services.PhotoUpload

	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
		if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
			s.sendError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		formString := func(key string) *string {
			if vs, ok := r.MultipartForm.Value[key]; ok && len(vs) > 0 {
				return &vs[0]
			}
			return nil
		}
		req.Name = formString("name")
		req.PhoneNumber = formString("phoneNumber")
		req.Email = formString("email")
		req.ContactType = formString("contactType")
		if v := formString("isFavourite"); v != nil {
			b, _ := strconv.ParseBool(*v)
			req.IsFavourite = &b
		}
		photo = photoFromForm(r)
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.sendError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	if msg := req.Validate(); msg != "" {
		s.sendError(w, http.StatusBadRequest, msg)
		return
	}

	update := &services.ContactUpdate{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		ContactType: req.ContactType,
		IsFavourite: req.IsFavourite,
	}

	updated, err := s.contacts.Update(r.Context(), userIDFromContext(r.Context()), id, update, photo)
	if err != nil {
		s.sendServiceError(w, r, err)
		return
	}
	s.sendJSON(w, http.StatusOK, "Successfully updated contact!", updated)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := s.contactIDFromPath(w, r)
	if !ok {
		return
	}

	if err := s.contacts.Delete(r.Context(), userIDFromContext(r.Context()), id); err != nil {
		s.sendServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
