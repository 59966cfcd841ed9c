package httpapi

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"docportal/internal/model"
)

const defaultCategory = "General"

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// formatBytes renders n in base-1024 units with one decimal below 10.
func formatBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	b := float64(n)
	i := int(math.Floor(math.Log(b) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := b / math.Pow(1024, float64(i))
	prec := 0
	if v < 10 {
		prec = 1
	}
	return strconv.FormatFloat(v, 'f', prec, 64) + " " + sizeUnits[i]
}

// fileExtension returns the lower-cased extension of name, ignoring any
// query or fragment. Dot-files and trailing dots have no extension.
func fileExtension(name string) string {
	clean, _, _ := strings.Cut(name, "?")
	clean, _, _ = strings.Cut(clean, "#")
	idx := strings.LastIndex(clean, ".")
	if idx <= 0 || idx == len(clean)-1 {
		return ""
	}
	return strings.ToLower(clean[idx+1:])
}

var mimeExtensions = map[string]string{
	"application/pdf":               "pdf",
	"application/msword":            "doc",
	"application/vnd.ms-excel":      "xls",
	"application/vnd.ms-powerpoint": "ppt",
	"text/plain":                    "txt",
	"text/markdown":                 "md",
	"text/csv":                      "csv",
	"image/png":                     "png",
	"image/jpeg":                    "jpg",
	"image/gif":                     "gif",
	"image/webp":                    "webp",
	"image/svg+xml":                 "svg",
	"application/zip":               "zip",
	"application/x-7z-compressed":   "7z",
	"application/x-rar-compressed":  "rar",
	"application/octet-stream":      "bin",

	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   "docx",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         "xlsx",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "pptx",
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// extensionFromMIME maps a MIME type to a file extension, falling back to
// the last dotted part of the subtype.
func extensionFromMIME(mime string) string {
	mt, _, _ := strings.Cut(mime, ";")
	mt = strings.ToLower(strings.TrimSpace(mt))
	if mt == "" {
		return ""
	}
	if ext, ok := mimeExtensions[mt]; ok {
		return ext
	}
	slash := strings.Index(mt, "/")
	if slash <= 0 || slash == len(mt)-1 {
		return ""
	}
	parts := strings.Split(mt[slash+1:], ".")
	return nonAlnum.ReplaceAllString(parts[len(parts)-1], "")
}

func mapDocument(r gjson.Result) model.Document {
	fileName := strictStr(r, "", "fileName", "name")
	ext := fileExtension(fileName)
	mime := strictStr(r, "", "mimeType", "contentType")
	if ext == "" {
		ext = extensionFromMIME(mime)
	}
	if ext == "" {
		ext = "unknown"
	}
	name := fileName
	if name == "" {
		name = "Untitled"
	}
	size := num(r, "fileSize", "size")

	return model.Document{
		ID:          str(r, uuid.NewString(), "documentId", "id", "fileId"),
		Name:        name,
		Type:        ext,
		Size:        formatBytes(size),
		SizeBytes:   size,
		UploadDate:  str(r, "", "uploadTime", "uploadDate", "createdAt"),
		Category:    defaultCategory,
		Tags:        cleanTags(r.Get("tags")),
		Description: strictStr(r, "", "description"),
		MIMEType:    mime,
	}
}

// cleanTags trims tag names and drops empty ones. Tags may arrive as
// strings or as objects with a name.
func cleanTags(v gjson.Result) []string {
	tags := make([]string, 0)
	if !v.IsArray() {
		return tags
	}
	for _, t := range v.Array() {
		var s string
		if t.IsObject() {
			s = str(t, "", "tagName", "name")
		} else if present(t) {
			s = t.String()
		}
		if s = strings.TrimSpace(s); s != "" {
			tags = append(tags, s)
		}
	}
	return tags
}

func mapTeam(r gjson.Result) model.Team {
	return model.Team{
		ID:            str(r, uuid.NewString(), "teamId", "id"),
		Name:          strictStr(r, "Unnamed Team", "name"),
		Description:   strictStr(r, "", "description"),
		MemberCount:   int(num(r, "memberCount")),
		Avatar:        strictStr(r, "", "avatarUrl"),
		DocumentCount: int(num(r, "documentCount", "docsCount")),
	}
}

func mapMember(r gjson.Result) model.TeamMember {
	return model.TeamMember{
		ID:     str(r, uuid.NewString(), "memberId", "id", "userId"),
		Name:   strictStr(r, "Unknown", "displayName", "name", "username"),
		Email:  strictStr(r, "", "email", "mail"),
		Role:   mapRole(firstOf(r, "role", "memberRole")),
		Avatar: strictStr(r, "", "avatarUrl", "avatar"),
	}
}

// mapRole folds backend role names onto owner, admin or member.
func mapRole(v gjson.Result) model.TeamRole {
	if v.Type != gjson.String {
		return model.RoleMember
	}
	s := strings.ToLower(v.Str)
	switch {
	case strings.Contains(s, "owner"):
		return model.RoleOwner
	case strings.Contains(s, "admin"):
		return model.RoleAdmin
	default:
		return model.RoleMember
	}
}

func mapLog(r gjson.Result, i int) model.LogEntry {
	id := num(r, "id")
	if !present(r.Get("id")) {
		id = int64(i + 1)
	}
	status := "SUCCESS"
	if r.Get("operationStatus").String() == "FAILURE" {
		status = "FAILURE"
	}
	return model.LogEntry{
		ID:              id,
		ActorType:       str(r, "UNKNOWN", "actorType", "userType"),
		ActorName:       str(r, "Unknown", "actorName", "username"),
		UserID:          num(r, "userId"),
		OperationType:   str(r, "UNKNOWN", "operationType", "opType"),
		TargetID:        num(r, "targetId"),
		TargetName:      str(r, "", "targetName", "objectName"),
		OperationStatus: status,
		Message:         strictStr(r, "", "message"),
		Time:            str(r, time.Now().UTC().Format(time.RFC3339), "time", "timestamp"),
	}
}

// mapComment normalizes a comment; user and content fall back to the given
// defaults when the backend omits them.
func mapComment(r gjson.Result, user, content string) model.Comment {
	return model.Comment{
		ID:        str(r, uuid.NewString(), "id", "commentId"),
		User:      str(r, user, "username", "userEmail"),
		Avatar:    strictStr(r, "", "avatarUrl"),
		Content:   str(r, content, "content"),
		Timestamp: str(r, time.Now().UTC().Format(time.RFC3339), "createdAt"),
	}
}

func mapCount(r gjson.Result) model.LogCount {
	return model.LogCount{
		Label: str(r, "", "label", "period", "date"),
		Count: num(r, "count", "total"),
	}
}
