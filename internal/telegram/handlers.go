package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/iamchris0/hsedeadlinerbot/internal/format"
	"github.com/iamchris0/hsedeadlinerbot/internal/logging"
)

const (
	uploadFirstHelpText = `Сначала загрузите Excel с листами "Оценивание" и "Задания". Отправьте файл прямо сюда.`
	uploadFirstInfoText = `Сначала загрузите Excel с листом "Инфо". Отправьте файл прямо сюда.`
	lookupFailedText    = "Не удалось получить данные курса. Попробуйте позже или загрузите файл заново."

	notAdminText   = "У вас нет прав для использования этой команды. Доступ ограничен для администратора бота."
	sendUpdateText = `Отправьте новый Excel-файл для обновления информации. Файл должен содержать листы "Оценивание", "Задания" и "Инфо".`

	notExcelText       = "Пожалуйста, отправьте Excel-файл (.xlsx или .xlsm)."
	receivingText      = "Получаю файл..."
	updatingText       = "Обновляю информацию из нового файла..."
	downloadFailedText = "Не удалось скачать файл. Попробуйте ещё раз."
	savedText          = "Файл сохранён для этого чата. Используйте /help для сводки."
	updatedText        = "Информация успешно обновлена! Используйте /help для сводки."

	remindersDailyText = "Ежедневные напоминания запланированы на 10:00."
	remindersTestText  = "Тестовые напоминания активированы (каждые 15 секунд)."
)

func (b *Bot) handleHelp(ctx context.Context, chatID int64) {
	stored, err := b.Courses.HasCourse(ctx, chatID)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	if !stored {
		b.reply(chatID, uploadFirstHelpText)
		return
	}

	weights, err := b.Courses.WeightsForChat(ctx, chatID)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	assignments, err := b.Courses.AssignmentsForChat(ctx, chatID)
	if err != nil {
		b.replyError(chatID, err)
		return
	}

	b.replyHTML(chatID, format.Summary(weights, assignments, time.Now()))
}

func (b *Bot) handleInfo(ctx context.Context, chatID int64) {
	stored, err := b.Courses.HasCourse(ctx, chatID)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	if !stored {
		b.reply(chatID, uploadFirstInfoText)
		return
	}

	rows, err := b.Courses.InfoForChat(ctx, chatID)
	if err != nil {
		b.replyError(chatID, err)
		return
	}

	b.replyHTML(chatID, format.Info(rows))
}

func (b *Bot) handleUpdateCommand(chatID int64) {
	if b.Config.AdminChatID == 0 || chatID != b.Config.AdminChatID {
		b.reply(chatID, notAdminText)
		return
	}

	b.setPendingUpdate(chatID)
	b.reply(chatID, sendUpdateText)
}

func (b *Bot) handleDocument(ctx context.Context, chatID int64, doc *tgbotapi.Document) {
	name := strings.ToLower(doc.FileName)
	if !strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".xlsm") {
		b.reply(chatID, notExcelText)
		return
	}

	isUpdate := b.isPendingUpdate(chatID)
	if isUpdate {
		b.reply(chatID, updatingText)
	} else {
		b.reply(chatID, receivingText)
	}

	path := b.Courses.WorkbookPath(chatID)
	if err := b.downloadDocument(ctx, doc.FileID, path); err != nil {
		logging.LogError(b.Logger, "failed to download document", err,
			slog.Int64("chat_id", chatID), slog.String("file_name", doc.FileName))
		b.reply(chatID, downloadFailedText)
		return
	}

	if _, err := b.Courses.ImportWorkbook(ctx, chatID, path); err != nil {
		// The file stays on disk so the user can be told what to fix
		b.reply(chatID, fmt.Sprintf(
			"Файл сохранён, но не удалось его прочитать полностью. Проверьте структуру листов. Ошибка: %v", err))
		return
	}

	b.clearPendingUpdate(chatID)
	if isUpdate {
		b.reply(chatID, updatedText)
	} else {
		b.reply(chatID, savedText)
	}

	b.reminders.Schedule(chatID)
	if b.Config.TestMode {
		b.reply(chatID, remindersTestText)
	} else {
		b.reply(chatID, remindersDailyText)
	}
}

// downloadDocument fetches an uploaded file from the Bot API file endpoint
// and writes it to dest.
func (b *Bot) downloadDocument(ctx context.Context, fileID, dest string) error {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return fmt.Errorf("error resolving file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer logging.SafeCloseWithLogging(resp.Body, b.Logger, "document_download")

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d downloading document", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close() // nolint:errcheck
		return err
	}
	return out.Close()
}
