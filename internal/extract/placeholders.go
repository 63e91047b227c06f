package extract

import "fmt"

// User-visible placeholder messages. These land in the content field on
// purpose: upload never hard-fails because extraction struggled, the
// user is told in plain language what happened and what to try.

func placeholderFileUnreadable(err error) string {
	return fmt.Sprintf(
		"The uploaded file could not be opened (%v). The upload may have been interrupted; please try uploading it again.", err)
}

func placeholderOCRUnavailable() string {
	return "This PDF has no embedded text layer (it is likely a scanned document), and optical character recognition is not available on this server. " +
		"To analyze this document, convert it to a searchable PDF with an OCR tool first, or upload the original digital version."
}

func placeholderOCRDisabled() string {
	return "This PDF has no embedded text layer (it is likely a scanned document). " +
		"Text recognition was skipped for this upload; re-upload the document with processing enabled, or provide a searchable PDF."
}

func placeholderImageOCRUnavailable() string {
	return "Text recognition for images is not available on this server, so no text could be read from this image. " +
		"Please upload the document as a PDF, Word or text file instead."
}

func placeholderOCRFailed(err error) string {
	return fmt.Sprintf(
		"Text recognition failed for this document (%v). The scan may be too low quality to read; rescanning at a higher resolution usually helps.", err)
}

func placeholderPageFailed(pageNumber int) string {
	return fmt.Sprintf("[Page %d: text could not be recognized]", pageNumber)
}

func placeholderInternal() string {
	return "An unexpected error occurred while extracting text from this document. The file has been stored; please try processing it again later."
}

// pageDelimiter separates assembled OCR pages.
func pageDelimiter(pageNumber int) string {
	return fmt.Sprintf("--- Page %d ---", pageNumber)
}
